package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devfolio/blog-api/internal/domain"
)

type aboutRepository struct {
	col *mongo.Collection
}

func NewAboutRepository(db *mongo.Database) *aboutRepository {
	col := db.Collection("about_profiles")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "singletonKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &aboutRepository{col: col}
}

func (r *aboutRepository) Get(ctx context.Context) (*domain.AboutProfile, error) {
	var profile domain.AboutProfile
	err := r.col.FindOne(ctx, bson.M{"singletonKey": domain.AboutSingletonKey}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *aboutRepository) Save(ctx context.Context, profile *domain.AboutProfile) (*domain.AboutProfile, error) {
	now := time.Now().UTC()
	profile.SingletonKey = domain.AboutSingletonKey
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}

	set := bson.M{
		"singletonKey": profile.SingletonKey,
		"fullName":     profile.FullName,
		"headline":     profile.Headline,
		"summary":      profile.Summary,
		"location":     profile.Location,
		"email":        profile.Email,
		"phone":        profile.Phone,
		"experience":   profile.Experience,
		"education":    profile.Education,
		"skills":       profile.Skills,
		"resumeUrl":    profile.ResumeURL,
		"resumeKey":    profile.ResumeKey,
		"updatedBy":    profile.UpdatedBy,
		"updatedAt":    profile.UpdatedAt,
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved domain.AboutProfile
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"singletonKey": domain.AboutSingletonKey},
		bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": profile.CreatedAt}},
		opts,
	).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
