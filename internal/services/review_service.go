package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

// Review moderation actions accepted by ResolveReports.
const (
	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
	ReviewActionFlag    = "flag"
	ReviewActionDelete  = "delete"
)

type ReviewService interface {
	// Moderation
	List(ctx context.Context, query *validators.ReviewListQuery, params *utils.PaginationParams) ([]*models.Review, int64, error)
	Get(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error)
	Approve(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, note string) (*models.Review, error)
	Reject(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason, note string) (*models.Review, error)
	Flag(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason string) (*models.Review, error)
	Unflag(ctx context.Context, actor *Actor, reviewID primitive.ObjectID) (*models.Review, error)
	SoftDelete(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason string) (*models.Review, error)
	ResolveReports(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, request *validators.ResolveReportsRequest) (*models.Review, error)

	// Customers
	Create(ctx context.Context, userID primitive.ObjectID, request *validators.CreateReviewRequest, images []*utils.UploadedFile) (*models.Review, error)
	ListMine(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	Vote(ctx context.Context, userID, reviewID primitive.ObjectID, helpful bool) (*models.Review, error)
	Report(ctx context.Context, userID, reviewID primitive.ObjectID, reason string) (*models.Review, error)
	ListPublic(ctx context.Context, restaurantID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error)
	GetPublic(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error)

	// Restaurants
	Reply(ctx context.Context, restaurantID, reviewID primitive.ObjectID, text string) (*models.Review, error)
	ListForRestaurant(ctx context.Context, restaurantID primitive.ObjectID, query *validators.ReviewListQuery, params *utils.PaginationParams) ([]*models.Review, int64, error)
}

type reviewService struct {
	reviews     interfaces.ReviewRepository
	restaurants interfaces.RestaurantRepository
	sink        AttachmentSink
	events      EventBus
	audit       *logger.AuditLogger
	logger      *logger.Logger
}

func NewReviewService(
	reviews interfaces.ReviewRepository,
	restaurants interfaces.RestaurantRepository,
	sink AttachmentSink,
	events EventBus,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		reviews:     reviews,
		restaurants: restaurants,
		sink:        sink,
		events:      events,
		audit:       logger.NewAuditLogger(log),
		logger:      log.WithField("service", "review"),
	}
}

// transition reads the review, runs check against it and applies update
// guarded by guard. When the guard fails the review is read again so the
// caller sees the error matching the current state.
func (s *reviewService) transition(ctx context.Context, reviewID primitive.ObjectID, check func(*models.Review) error, guard bson.M, update bson.M) (*models.Review, error) {
	current, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFoundOr(err, "Review", "Failed to load review")
	}
	if err := check(current); err != nil {
		return nil, err
	}

	review, err := s.reviews.ApplyIf(ctx, reviewID, guard, update)
	if err == nil {
		return review, nil
	}
	if !errors.Is(err, utils.ErrVersionConflict) {
		return nil, notFoundOr(err, "Review", "Failed to update review")
	}

	latest, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFoundOr(err, "Review", "Failed to load review")
	}
	if err := check(latest); err != nil {
		return nil, err
	}
	return nil, utils.NewConflictError("REVIEW_CHANGED", "Review was changed by another request, try again")
}

func notDeleted(r *models.Review) error {
	if r.IsDeleted {
		return reviewDeletedError()
	}
	return nil
}

func (s *reviewService) Approve(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, note string) (*models.Review, error) {
	return s.approve(ctx, actor, reviewID, note, nil)
}

func (s *reviewService) approve(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, note string, extra bson.M) (*models.Review, error) {
	now := time.Now()
	review, err := s.transition(ctx, reviewID,
		func(r *models.Review) error {
			if err := notDeleted(r); err != nil {
				return err
			}
			if r.IsApproved() {
				return utils.ErrAlreadyApproved
			}
			return nil
		},
		bson.M{"is_deleted": false, "status": bson.M{"$ne": models.ReviewApproved}},
		withFields(bson.M{
			"$set": bson.M{
				"status":     models.ReviewApproved,
				"moderation": models.ReviewModeration{Note: strings.TrimSpace(note), By: actor.ID, At: now},
			},
			"$unset": bson.M{"flag": ""},
		}, extra),
	)
	if err != nil {
		return nil, err
	}

	s.moderated(ctx, actor, review, ReviewActionApprove, nil)
	return review, nil
}

func (s *reviewService) Reject(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason, note string) (*models.Review, error) {
	return s.reject(ctx, actor, reviewID, reason, note, nil)
}

func (s *reviewService) reject(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason, note string, extra bson.M) (*models.Review, error) {
	if err := validators.CheckReason(reason); err != nil {
		return nil, err
	}

	now := time.Now()
	review, err := s.transition(ctx, reviewID,
		func(r *models.Review) error {
			if err := notDeleted(r); err != nil {
				return err
			}
			if r.IsRejected() {
				return utils.ErrAlreadyRejected
			}
			return nil
		},
		bson.M{"is_deleted": false, "status": bson.M{"$ne": models.ReviewRejected}},
		withFields(bson.M{
			"$set": bson.M{
				"status": models.ReviewRejected,
				"moderation": models.ReviewModeration{
					Reason: strings.TrimSpace(reason),
					Note:   strings.TrimSpace(note),
					By:     actor.ID,
					At:     now,
				},
			},
			"$unset": bson.M{"flag": ""},
		}, extra),
	)
	if err != nil {
		return nil, err
	}

	s.moderated(ctx, actor, review, ReviewActionReject, map[string]interface{}{"reason": strings.TrimSpace(reason)})
	return review, nil
}

func (s *reviewService) Flag(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason string) (*models.Review, error) {
	return s.flag(ctx, actor, reviewID, reason, nil)
}

func (s *reviewService) flag(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason string, extra bson.M) (*models.Review, error) {
	if err := validators.CheckReason(reason); err != nil {
		return nil, err
	}

	review, err := s.transition(ctx, reviewID,
		func(r *models.Review) error {
			if err := notDeleted(r); err != nil {
				return err
			}
			if r.IsFlagged() {
				return utils.ErrAlreadyFlagged
			}
			return nil
		},
		bson.M{"is_deleted": false, "flag": bson.M{"$exists": false}},
		withFields(bson.M{"$set": bson.M{
			"flag": models.ReviewFlag{Reason: strings.TrimSpace(reason), By: actor.ID, At: time.Now()},
		}}, extra),
	)
	if err != nil {
		return nil, err
	}

	s.moderated(ctx, actor, review, ReviewActionFlag, map[string]interface{}{"reason": strings.TrimSpace(reason)})
	return review, nil
}

func (s *reviewService) Unflag(ctx context.Context, actor *Actor, reviewID primitive.ObjectID) (*models.Review, error) {
	review, err := s.transition(ctx, reviewID,
		func(r *models.Review) error {
			if err := notDeleted(r); err != nil {
				return err
			}
			if !r.IsFlagged() {
				return utils.ErrNotFlagged
			}
			return nil
		},
		bson.M{"is_deleted": false, "flag": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"flag": ""}},
	)
	if err != nil {
		return nil, err
	}

	s.moderated(ctx, actor, review, "unflag", nil)
	return review, nil
}

func (s *reviewService) SoftDelete(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason string) (*models.Review, error) {
	return s.softDelete(ctx, actor, reviewID, reason, nil)
}

func (s *reviewService) softDelete(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, reason string, extra bson.M) (*models.Review, error) {
	if err := validators.CheckReason(reason); err != nil {
		return nil, err
	}

	review, err := s.transition(ctx, reviewID,
		func(r *models.Review) error {
			if r.IsDeleted {
				return utils.ErrAlreadyDeleted
			}
			return nil
		},
		bson.M{"is_deleted": false},
		withFields(bson.M{"$set": bson.M{
			"is_deleted": true,
			"deletion":   models.ReviewDeletion{Reason: strings.TrimSpace(reason), By: actor.ID, At: time.Now()},
		}}, extra),
	)
	if err != nil {
		return nil, err
	}

	s.moderated(ctx, actor, review, ReviewActionDelete, map[string]interface{}{"reason": strings.TrimSpace(reason)})
	return review, nil
}

// ResolveReports clears the reports together with the chosen transition.
// When the review is already in the state the action leads to, clearing
// the reports is the whole resolution.
func (s *reviewService) ResolveReports(ctx context.Context, actor *Actor, reviewID primitive.ObjectID, request *validators.ResolveReportsRequest) (*models.Review, error) {
	if request.Action != ReviewActionApprove {
		if err := validators.CheckReason(request.Reason); err != nil {
			return nil, err
		}
	}

	current, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFoundOr(err, "Review", "Failed to load review")
	}
	if err := notDeleted(current); err != nil {
		return nil, err
	}

	cleared := bson.M{"reports": []models.ReviewReport{}, "report_count": 0}

	if alreadyResolved(current, request.Action) {
		review, err := s.transition(ctx, reviewID, notDeleted,
			bson.M{"is_deleted": false},
			bson.M{"$set": cleared},
		)
		if err != nil {
			return nil, err
		}
		s.moderated(ctx, actor, review, "resolve_reports", map[string]interface{}{"resolution": request.Action})
		return review, nil
	}

	switch request.Action {
	case ReviewActionApprove:
		return s.approve(ctx, actor, reviewID, request.Note, cleared)
	case ReviewActionReject:
		return s.reject(ctx, actor, reviewID, request.Reason, request.Note, cleared)
	case ReviewActionFlag:
		return s.flag(ctx, actor, reviewID, request.Reason, cleared)
	case ReviewActionDelete:
		return s.softDelete(ctx, actor, reviewID, request.Reason, cleared)
	}
	return nil, utils.NewValidationError("Unknown action " + request.Action)
}

func alreadyResolved(r *models.Review, action string) bool {
	switch action {
	case ReviewActionApprove:
		return r.IsApproved()
	case ReviewActionReject:
		return r.IsRejected()
	case ReviewActionFlag:
		return r.IsFlagged()
	}
	return false
}

// withFields adds extra to the $set stage of update.
func withFields(update bson.M, extra bson.M) bson.M {
	if len(extra) == 0 {
		return update
	}
	set, ok := update["$set"].(bson.M)
	if !ok {
		set = bson.M{}
		update["$set"] = set
	}
	for k, v := range extra {
		set[k] = v
	}
	return update
}

// moderated records a moderation step, refreshes the restaurant rating and
// publishes the event.
func (s *reviewService) moderated(ctx context.Context, actor *Actor, review *models.Review, action string, details map[string]interface{}) {
	data := map[string]interface{}{
		"action":       action,
		"status":       review.Status,
		"restaurantId": review.RestaurantID.Hex(),
	}
	for k, v := range details {
		data[k] = v
	}

	s.audit.LogAction("review_"+action, "review", &actor.ID, map[string]interface{}{"review_id": review.ID.Hex()})
	s.events.Publish(ctx, newEvent(models.EventReviewModerated, "review", review.ID, actor, data))

	switch action {
	case ReviewActionFlag, "unflag", "resolve_reports":
	default:
		s.refreshRating(ctx, review.RestaurantID)
	}
}

func (s *reviewService) refreshRating(ctx context.Context, restaurantID primitive.ObjectID) {
	average, count, err := s.reviews.RatingSummary(ctx, restaurantID)
	if err == nil {
		err = s.restaurants.UpdateRating(ctx, restaurantID, utils.RoundMoney(average), count)
	}
	if err != nil {
		s.logger.WithError(err).WithField("restaurant_id", restaurantID.Hex()).Warn("Failed to refresh restaurant rating")
	}
}

func (s *reviewService) List(ctx context.Context, query *validators.ReviewListQuery, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	filter, err := reviewFilter(query)
	if err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviews.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list reviews", err)
	}
	return reviews, total, nil
}

func (s *reviewService) Get(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFoundOr(err, "Review", "Failed to get review")
	}
	return review, nil
}

func (s *reviewService) Create(ctx context.Context, userID primitive.ObjectID, request *validators.CreateReviewRequest, images []*utils.UploadedFile) (*models.Review, error) {
	restaurantID, err := primitive.ObjectIDFromHex(request.RestaurantID)
	if err != nil {
		return nil, utils.NewValidationError(utils.ErrInvalidID, "restaurantId")
	}
	orderID, err := primitive.ObjectIDFromHex(request.OrderID)
	if err != nil {
		return nil, utils.NewValidationError(utils.ErrInvalidID, "orderId")
	}
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		return nil, notFoundOr(err, "Restaurant", "Failed to create review")
	}
	if len(images) > utils.MaxFilesPerRequest {
		return nil, utils.NewValidationError("Too many images in one request")
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		url, err := s.sink.Store(ctx, "reviews", image)
		if err != nil {
			for _, u := range urls {
				s.sink.Discard(ctx, u)
			}
			return nil, err
		}
		urls = append(urls, url)
	}

	review := &models.Review{
		UserID:       userID,
		RestaurantID: restaurantID,
		OrderID:      orderID,
		Rating:       request.Rating,
		Comment:      strings.TrimSpace(request.Comment),
		Images:       urls,
		Status:       models.ReviewPending,
		IsVisible:    true,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		for _, u := range urls {
			s.sink.Discard(ctx, u)
		}
		return nil, storeError(err, "Review", "You have already reviewed this order", "Failed to create review")
	}

	s.refreshRating(ctx, restaurantID)
	return review, nil
}

func (s *reviewService) ListMine(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	deleted := false
	reviews, total, err := s.reviews.List(ctx, models.ReviewFilter{UserID: &userID, IsDeleted: &deleted}, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list reviews", err)
	}
	return reviews, total, nil
}

func (s *reviewService) Vote(ctx context.Context, userID, reviewID primitive.ObjectID, helpful bool) (*models.Review, error) {
	counter := "unhelpful_count"
	if helpful {
		counter = "helpful_count"
	}

	alreadyVoted := func(r *models.Review) error {
		if err := notDeleted(r); err != nil {
			return err
		}
		for _, voter := range r.Voters {
			if voter == userID {
				return utils.NewValidationError("You have already voted on this review")
			}
		}
		return nil
	}

	return s.transition(ctx, reviewID, alreadyVoted,
		bson.M{"is_deleted": false, "voters": bson.M{"$ne": userID}},
		bson.M{
			"$inc":      bson.M{counter: 1},
			"$addToSet": bson.M{"voters": userID},
		},
	)
}

func (s *reviewService) Report(ctx context.Context, userID, reviewID primitive.ObjectID, reason string) (*models.Review, error) {
	alreadyReported := func(r *models.Review) error {
		if err := notDeleted(r); err != nil {
			return err
		}
		for _, report := range r.Reports {
			if report.UserID == userID {
				return utils.NewValidationError("You have already reported this review")
			}
		}
		return nil
	}

	return s.transition(ctx, reviewID, alreadyReported,
		bson.M{"is_deleted": false, "reports.user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"reports": models.ReviewReport{UserID: userID, Reason: strings.TrimSpace(reason), At: time.Now()}},
			"$inc":  bson.M{"report_count": 1},
		},
	)
}

func (s *reviewService) ListPublic(ctx context.Context, restaurantID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	reviews, total, err := s.reviews.List(ctx, models.PublicReviewFilter(restaurantID), params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list reviews", err)
	}
	for _, r := range reviews {
		redactPublic(r)
	}
	return reviews, total, nil
}

func (s *reviewService) GetPublic(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFoundOr(err, "Review", "Failed to get review")
	}
	if review.IsDeleted || !review.IsVisible || review.IsRejected() {
		return nil, utils.NewNotFoundError("Review")
	}

	if err := s.reviews.IncrementViews(ctx, reviewID); err != nil {
		s.logger.WithError(err).Warn("Failed to count review view")
	} else {
		review.ViewCount++
	}

	redactPublic(review)
	return review, nil
}

func (s *reviewService) Reply(ctx context.Context, restaurantID, reviewID primitive.ObjectID, text string) (*models.Review, error) {
	owned := func(r *models.Review) error {
		if r.RestaurantID != restaurantID {
			return utils.NewNotFoundError("Review")
		}
		return notDeleted(r)
	}

	return s.transition(ctx, reviewID, owned,
		bson.M{"is_deleted": false, "restaurant_id": restaurantID},
		bson.M{"$set": bson.M{
			"response": models.ReviewResponse{Text: strings.TrimSpace(text), At: time.Now()},
		}},
	)
}

func (s *reviewService) ListForRestaurant(ctx context.Context, restaurantID primitive.ObjectID, query *validators.ReviewListQuery, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	filter, err := reviewFilter(query)
	if err != nil {
		return nil, 0, err
	}
	deleted := false
	filter.RestaurantID = &restaurantID
	filter.IsDeleted = &deleted

	reviews, total, err := s.reviews.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list reviews", err)
	}
	return reviews, total, nil
}

func reviewFilter(query *validators.ReviewListQuery) (models.ReviewFilter, error) {
	filter := models.ReviewFilter{
		Rating:    query.Rating,
		IsFlagged: query.IsFlagged,
		IsDeleted: query.IsDeleted,
		IsVisible: query.IsVisible,
	}
	if query.Status != "" {
		status := models.ReviewStatus(query.Status)
		filter.Status = &status
	}
	if query.RestaurantID != "" {
		id, err := primitive.ObjectIDFromHex(query.RestaurantID)
		if err != nil {
			return filter, utils.NewValidationError(utils.ErrInvalidID, "restaurant")
		}
		filter.RestaurantID = &id
	}
	if query.UserID != "" {
		id, err := primitive.ObjectIDFromHex(query.UserID)
		if err != nil {
			return filter, utils.NewValidationError(utils.ErrInvalidID, "userId")
		}
		filter.UserID = &id
	}
	return filter, nil
}

// redactPublic strips moderation internals before a review is shown to
// customers.
func redactPublic(r *models.Review) {
	r.Reports = nil
	r.Moderation = nil
	r.Flag = nil
}
