package domain

import "time"

// Site is a published mini-site owned by a user. Each active or inactive site
// consumes one slot of its owner's capacity while the row exists.
type Site struct {
	ID          string
	UserID      string
	Slug        string
	Domain      string
	CompanyName string
	CNPJ        string
	Mission     string
	Phones      string
	Email       string
	Instagram   string
	WhatsApp    string
	About       string
	Footer      string
	MetaPixel   string
	MetaTag     string
	AppID       string
	PageLink    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
