package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionAttachments = "attachments"
)

type RelatedType string

const (
	RelatedTypeToken                RelatedType = "token"
	RelatedTypeTrustedIssuerRequest RelatedType = "trusted-issuer-request"
)

func (self RelatedType) IsValid() bool {
	return self == RelatedTypeToken || self == RelatedTypeTrustedIssuerRequest
}

// File metadata tied to a token or a trusted-issuer application.
// RelatedId is a token address or a TrustedIssuerRequest id, by convention only.
type Attachment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RelatedId   string             `bson:"relatedId" json:"relatedId"`
	RelatedType RelatedType        `bson:"relatedType" json:"relatedType"`

	Filename    string `bson:"filename" json:"filename"`
	ContentType string `bson:"contentType" json:"contentType"`
	Size        int64  `bson:"size" json:"size"`
	StoragePath string `bson:"storagePath" json:"storagePath"`
	Sha256      string `bson:"sha256,omitempty" json:"sha256,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	UploadedBy string    `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (self *Attachment) Normalize() {
	self.UploadedBy = NormalizeAddress(self.UploadedBy)
}
