package models

// Admin is one row of the Admins worksheet. Password holds a bcrypt hash.
type Admin struct {
	ID          string `sheet:"ID" json:"ID"`
	Name        string `sheet:"Name" json:"Name"`
	Email       string `sheet:"Email" json:"Email"`
	Password    string `sheet:"Password" json:"-"`
	Role        string `sheet:"Role" json:"Role"`
	CreatedDate string `sheet:"Created Date" json:"Created Date"`
	LastLogin   string `sheet:"Last Login" json:"Last Login"`
	Status      string `sheet:"Status" json:"Status"`
	CreatedAt   string `sheet:"Created At" json:"Created At"`
	UpdatedAt   string `sheet:"Updated At" json:"Updated At"`
}
