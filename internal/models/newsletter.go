package models

import "time"

type NewsletterSubscription struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Email             string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Status            string    `gorm:"size:20;not null;default:'subscribed';index" json:"status"`
	MailchimpMemberID string    `gorm:"size:64" json:"-"`
	FranchiseID       *uint     `gorm:"index" json:"franchise_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (NewsletterSubscription) TableName() string { return "newsletter_subscriptions" }
