// Package entity defines the domain models for the companies feature.
package entity

import "go.mongodb.org/mongo-driver/v2/bson"

// Company is a hiring organization.
//
// New companies are created from identity-provider organization events and matched on
// ClerkID. Documents created by the retired password registration flow still carry a
// password hash; it is read for migration purposes only and never serialized.
type Company struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID string        `bson:"clerkId,omitempty" json:"clerkId,omitempty"`
	Name    string        `bson:"name" json:"name"`
	Slug    string        `bson:"slug,omitempty" json:"slug,omitempty"`
	Email   string        `bson:"email,omitempty" json:"email,omitempty"`
	Image   string        `bson:"image" json:"image"`

	// ImagePublicID はアップロード済みロゴのメディアホスト上のID。差し替え時の削除に使います。
	ImagePublicID string `bson:"imagePublicId,omitempty" json:"-"`

	LegacyPasswordHash string `bson:"password,omitempty" json:"-"`
}

// Organization is the identity-provider view of a company, as delivered by webhooks.
type Organization struct {
	ClerkID string
	Name    string
	Slug    string
	Image   string
}

// ProfileUpdate carries the editable company profile fields.
type ProfileUpdate struct {
	Name  string
	Email string
}
