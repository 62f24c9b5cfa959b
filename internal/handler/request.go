package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	appErrors "github.com/noah-isme/rbc-sheets-api/pkg/errors"
	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

const (
	maxPageSize = 100
	maxPage     = 1_000_000
)

// pageQuery reads ?page= and ?limit=, falling back to defaults on bad input.
func pageQuery(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(sheets.DefaultPage)))
	if err != nil || page < 1 {
		page = sheets.DefaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(sheets.DefaultLimit)))
	if err != nil || limit < 1 {
		limit = sheets.DefaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func queryString(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

// queryFloat returns nil when key is absent and an error when it is not a number.
func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw := queryString(c, key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, appErrors.Validation(fmt.Sprintf("%s must be a number", key))
	}
	return &f, nil
}

// bindRow decodes a JSON object into a sheet row, stringifying scalar values.
func bindRow(c *gin.Context) (sheets.Row, error) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	return toRow(body)
}

// bindRows decodes {key: [...]} bulk payloads.
func bindRows(c *gin.Context, key, entity string) ([]sheets.Row, error) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	items, ok := body[key].([]interface{})
	if !ok {
		return nil, appErrors.Validation(fmt.Sprintf("%s data must be an array", entity))
	}
	rows := make([]sheets.Row, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, appErrors.Validation(fmt.Sprintf("%s at index %d must be an object", entity, i))
		}
		row, err := toRow(obj)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRow(body map[string]interface{}) (sheets.Row, error) {
	row := make(sheets.Row, len(body))
	for key, value := range body {
		if value == nil {
			row[key] = ""
			continue
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			return nil, appErrors.Validation(fmt.Sprintf("%s must be a scalar value", key))
		}
		s, err := cast.ToStringE(value)
		if err != nil {
			return nil, appErrors.Validation(fmt.Sprintf("%s has an unsupported value", key))
		}
		row[key] = s
	}
	return row, nil
}

func bulkMessage(imported, failed int) string {
	return fmt.Sprintf("Bulk import completed. %d imported, %d errors.", imported, failed)
}
