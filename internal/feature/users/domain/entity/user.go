// Package entity defines the domain entities for the users feature.
package entity

// User is a job seeker. ID is the identity provider's user id and doubles as the
// primary key.
type User struct {
	ID     string `bson:"_id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Image  string `bson:"image" json:"image"`
	Resume string `bson:"resume" json:"resume"`

	// ResumePublicID はアップロード済み履歴書のメディアホスト上のID。差し替え時の削除に使います。
	ResumePublicID string `bson:"resumePublicId,omitempty" json:"-"`
}

// ProfileUpdate carries the editable user profile fields.
type ProfileUpdate struct {
	Name  string
	Email string
}

// Identity is what the identity provider tells us about a signed-in user.
type Identity struct {
	ID    string
	Name  string
	Email string
	Image string
}
