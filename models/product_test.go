package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAverageRating(t *testing.T) {
	p := &Product{Reviews: []Review{{Rating: 4}, {Rating: 2}}}
	assert.Equal(t, 3.0, p.AverageRating())

	p.Reviews = nil
	assert.Equal(t, 0.0, p.AverageRating())
}

func TestRefreshRating(t *testing.T) {
	p := &Product{Reviews: []Review{{Rating: 5}, {Rating: 4}, {Rating: 3}}}
	p.RefreshRating()
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 3, p.ReviewCount)
}

func TestUpsertReviewAppends(t *testing.T) {
	p := &Product{}
	created := p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 4, Text: "good"})

	assert.True(t, created)
	require.Len(t, p.Reviews, 1)
	assert.False(t, p.Reviews[0].ID.IsZero())
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 1, p.ReviewCount)
}

func TestUpsertReviewOverwritesSameAuthor(t *testing.T) {
	author := primitive.NewObjectID()
	p := &Product{}
	p.UpsertReview(Review{User: author, Rating: 2, Text: "meh", Verified: true})

	created := p.UpsertReview(Review{User: author, Rating: 5, Text: "grew on me", Date: time.Now()})

	assert.False(t, created)
	require.Len(t, p.Reviews, 1) // review count unchanged
	assert.Equal(t, 5, p.Reviews[0].Rating)
	assert.Equal(t, "grew on me", p.Reviews[0].Text)
	assert.True(t, p.Reviews[0].Verified) // verified is never recomputed
	assert.Equal(t, 5.0, p.Rating)
	assert.Equal(t, 1, p.ReviewCount)
}

func TestRemoveReview(t *testing.T) {
	p := &Product{}
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 4, Text: "a"})
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 2, Text: "b"})
	require.Equal(t, 3.0, p.Rating)

	require.NoError(t, p.RemoveReview(p.Reviews[1].ID))
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 1, p.ReviewCount)

	assert.ErrorIs(t, p.RemoveReview(primitive.NewObjectID()), ErrReviewNotFound)
}

func TestRemoveLastReviewZeroesRating(t *testing.T) {
	p := &Product{}
	p.UpsertReview(Review{User: primitive.NewObjectID(), Rating: 5, Text: "only one"})

	require.NoError(t, p.RemoveReview(p.Reviews[0].ID))
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.ReviewCount)
}
