package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AboutSingletonKey pins the about profile collection to a single document.
const AboutSingletonKey = "about_profile"

// AboutProfile is the single "about me" page record.
type AboutProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SingletonKey string             `bson:"singletonKey" json:"-"`
	FullName     string             `bson:"fullName" json:"fullName"`
	Headline     string             `bson:"headline" json:"headline"`
	Summary      string             `bson:"summary" json:"summary"`
	Location     string             `bson:"location" json:"location"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Experience   string             `bson:"experience" json:"experience"`
	Education    string             `bson:"education" json:"education"`
	Skills       []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	ResumeURL    string             `bson:"resumeUrl,omitempty" json:"resumeUrl,omitempty"`
	ResumeKey    string             `bson:"resumeKey,omitempty" json:"-"`
	UpdatedBy    primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
