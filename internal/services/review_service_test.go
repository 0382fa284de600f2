package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

// ApplyIf understands the guard and update shapes the moderation
// transitions use.
func (f *fakeReviews) ApplyIf(_ context.Context, id primitive.ObjectID, guard bson.M, update bson.M) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	if !matchesGuard(r, guard) {
		return nil, utils.ErrVersionConflict
	}

	if set, ok := update["$set"].(bson.M); ok {
		for key, value := range set {
			switch key {
			case "status":
				r.Status = value.(models.ReviewStatus)
			case "moderation":
				m := value.(models.ReviewModeration)
				r.Moderation = &m
			case "flag":
				fl := value.(models.ReviewFlag)
				r.Flag = &fl
			case "is_deleted":
				r.IsDeleted = value.(bool)
			case "deletion":
				d := value.(models.ReviewDeletion)
				r.Deletion = &d
			case "reports":
				r.Reports = value.([]models.ReviewReport)
			case "report_count":
				r.ReportCount = value.(int)
			}
		}
	}
	if unset, ok := update["$unset"].(bson.M); ok {
		if _, ok := unset["flag"]; ok {
			r.Flag = nil
		}
	}

	copied := *r
	return &copied, nil
}

func matchesGuard(r *models.Review, guard bson.M) bool {
	for key, cond := range guard {
		switch key {
		case "is_deleted":
			if r.IsDeleted != cond.(bool) {
				return false
			}
		case "status":
			if ne, ok := cond.(bson.M)["$ne"]; ok && r.Status == ne.(models.ReviewStatus) {
				return false
			}
		case "flag":
			if exists, ok := cond.(bson.M)["$exists"]; ok && r.IsFlagged() != exists.(bool) {
				return false
			}
		}
	}
	return true
}

func (f *fakeReviews) RatingSummary(context.Context, primitive.ObjectID) (float64, int, error) {
	var sum, count int
	for _, r := range f.reviews {
		if r.IsApproved() && !r.IsDeleted {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type ratingRecorder struct {
	interfaces.RestaurantRepository
	rating float64
	total  int
}

func (r *ratingRecorder) UpdateRating(_ context.Context, _ primitive.ObjectID, rating float64, total int) error {
	r.rating, r.total = rating, total
	return nil
}

type reviewFixture struct {
	service     ReviewService
	reviews     *fakeReviews
	restaurants *ratingRecorder
	bus         *recordingBus
	admin       *Actor
}

func newReviewFixture(reviews ...*models.Review) *reviewFixture {
	f := &reviewFixture{
		reviews:     &fakeReviews{reviews: map[primitive.ObjectID]*models.Review{}},
		restaurants: &ratingRecorder{},
		bus:         &recordingBus{},
		admin:       &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin},
	}
	for _, r := range reviews {
		f.reviews.reviews[r.ID] = r
	}
	f.service = NewReviewService(f.reviews, f.restaurants, nil, f.bus, logger.NewDiscard())
	return f
}

func pendingReview(rating int) *models.Review {
	return &models.Review{
		ID:           primitive.NewObjectID(),
		RestaurantID: primitive.NewObjectID(),
		UserID:       primitive.NewObjectID(),
		Rating:       rating,
		Status:       models.ReviewPending,
		IsVisible:    true,
	}
}

func TestReviewApproveRejectTransitions(t *testing.T) {
	ctx := context.Background()
	review := pendingReview(4)
	f := newReviewFixture(review)

	approved, err := f.service.Approve(ctx, f.admin, review.ID, "looks fine")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, approved.Status)
	assert.Equal(t, f.admin.ID, approved.Moderation.By)
	assert.Equal(t, 4.0, f.restaurants.rating)
	assert.Equal(t, 1, f.restaurants.total)

	_, err = f.service.Approve(ctx, f.admin, review.ID, "")
	assert.True(t, errors.Is(err, utils.ErrAlreadyApproved))

	_, err = f.service.Reject(ctx, f.admin, review.ID, "too short", "")
	assert.True(t, errors.Is(err, utils.ErrInvalidReason))

	rejected, err := f.service.Reject(ctx, f.admin, review.ID, "Contains abusive language", "")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewRejected, rejected.Status)
	assert.Equal(t, "Contains abusive language", rejected.Moderation.Reason)
	assert.Zero(t, f.restaurants.total)

	_, err = f.service.Reject(ctx, f.admin, review.ID, "Contains abusive language", "")
	assert.True(t, errors.Is(err, utils.ErrAlreadyRejected))

	assert.Equal(t, []models.EventType{models.EventReviewModerated, models.EventReviewModerated}, f.bus.types())
}

func TestReviewFlagIsIndependentOfStatus(t *testing.T) {
	ctx := context.Background()
	review := pendingReview(2)
	f := newReviewFixture(review)

	flagged, err := f.service.Flag(ctx, f.admin, review.ID, "Suspected fake review")
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged())
	assert.Equal(t, models.ReviewPending, flagged.Status)

	_, err = f.service.Flag(ctx, f.admin, review.ID, "Suspected fake review")
	assert.True(t, errors.Is(err, utils.ErrAlreadyFlagged))

	unflagged, err := f.service.Unflag(ctx, f.admin, review.ID)
	require.NoError(t, err)
	assert.False(t, unflagged.IsFlagged())

	_, err = f.service.Unflag(ctx, f.admin, review.ID)
	assert.True(t, errors.Is(err, utils.ErrNotFlagged))

	// approving clears an open flag
	_, err = f.service.Flag(ctx, f.admin, review.ID, "Suspected fake review")
	require.NoError(t, err)
	approved, err := f.service.Approve(ctx, f.admin, review.ID, "")
	require.NoError(t, err)
	assert.False(t, approved.IsFlagged())
}

func TestReviewSoftDelete(t *testing.T) {
	ctx := context.Background()
	review := pendingReview(5)
	f := newReviewFixture(review)

	deleted, err := f.service.SoftDelete(ctx, f.admin, review.ID, "Requested by the customer")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, "Requested by the customer", deleted.Deletion.Reason)

	_, err = f.service.SoftDelete(ctx, f.admin, review.ID, "Requested by the customer")
	assert.True(t, errors.Is(err, utils.ErrAlreadyDeleted))

	_, err = f.service.Approve(ctx, f.admin, review.ID, "")
	assert.Equal(t, "REVIEW_DELETED", utils.AsAppError(err).Code)

	_, err = f.service.Approve(ctx, f.admin, primitive.NewObjectID(), "")
	assert.Equal(t, utils.KindNotFound, utils.AsAppError(err).Kind)
}

func TestResolveReports(t *testing.T) {
	ctx := context.Background()
	review := pendingReview(3)
	review.Reports = []models.ReviewReport{{UserID: primitive.NewObjectID(), Reason: "spam"}}
	review.ReportCount = 1
	f := newReviewFixture(review)

	_, err := f.service.ResolveReports(ctx, f.admin, review.ID, &validators.ResolveReportsRequest{Action: ReviewActionReject, Reason: "short"})
	assert.True(t, errors.Is(err, utils.ErrInvalidReason))
	assert.Equal(t, 1, f.reviews.reviews[review.ID].ReportCount)

	resolved, err := f.service.ResolveReports(ctx, f.admin, review.ID, &validators.ResolveReportsRequest{Action: ReviewActionFlag, Reason: "Reported several times as spam"})
	require.NoError(t, err)
	assert.True(t, resolved.IsFlagged())
	assert.Zero(t, resolved.ReportCount)
	assert.Empty(t, resolved.Reports)
}

func reportedReview(status models.ReviewStatus) *models.Review {
	review := pendingReview(4)
	review.Status = status
	review.Reports = []models.ReviewReport{{UserID: primitive.NewObjectID(), Reason: "spam"}}
	review.ReportCount = 1
	return review
}

func TestResolveReportsKeepsApprovedReview(t *testing.T) {
	ctx := context.Background()
	review := reportedReview(models.ReviewApproved)
	f := newReviewFixture(review)

	resolved, err := f.service.ResolveReports(ctx, f.admin, review.ID, &validators.ResolveReportsRequest{Action: ReviewActionApprove})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, resolved.Status)
	assert.Zero(t, resolved.ReportCount)
	assert.Empty(t, resolved.Reports)
	assert.Equal(t, []models.EventType{models.EventReviewModerated}, f.bus.types())
}

func TestResolveReportsOnFlaggedReview(t *testing.T) {
	ctx := context.Background()
	review := reportedReview(models.ReviewPending)
	review.Flag = &models.ReviewFlag{Reason: "Flagged earlier for checking"}
	f := newReviewFixture(review)

	resolved, err := f.service.ResolveReports(ctx, f.admin, review.ID, &validators.ResolveReportsRequest{Action: ReviewActionFlag, Reason: "Reported several times as spam"})
	require.NoError(t, err)
	assert.True(t, resolved.IsFlagged())
	assert.Equal(t, "Flagged earlier for checking", resolved.Flag.Reason)
	assert.Zero(t, resolved.ReportCount)
}

func TestResolveReportsApprovesWithReportsCleared(t *testing.T) {
	ctx := context.Background()
	review := reportedReview(models.ReviewPending)
	f := newReviewFixture(review)

	resolved, err := f.service.ResolveReports(ctx, f.admin, review.ID, &validators.ResolveReportsRequest{Action: ReviewActionApprove, Note: "fine"})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, resolved.Status)
	assert.Zero(t, resolved.ReportCount)
	assert.Equal(t, 4.0, f.restaurants.rating)
}

func TestResolveReportsLeavesDeletedReviewUntouched(t *testing.T) {
	ctx := context.Background()
	review := reportedReview(models.ReviewPending)
	review.IsDeleted = true
	f := newReviewFixture(review)

	_, err := f.service.ResolveReports(ctx, f.admin, review.ID, &validators.ResolveReportsRequest{Action: ReviewActionApprove})
	appErr := utils.AsAppError(err)
	assert.Equal(t, "REVIEW_DELETED", appErr.Code)
	assert.Equal(t, 1, f.reviews.reviews[review.ID].ReportCount)
}
