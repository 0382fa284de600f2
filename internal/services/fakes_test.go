package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
)

// Fakes embed the repository interface so that only the methods a test
// needs are implemented. Calling anything else panics.

type recordingBus struct {
	mu     sync.Mutex
	events []*models.Event
}

func (b *recordingBus) Publish(_ context.Context, event *models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) types() []models.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.EventType, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

type recordingNotifier struct {
	otps    map[string]string
	blocked map[string]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{otps: map[string]string{}, blocked: map[string]bool{}}
}

func (n *recordingNotifier) SendOTP(_ context.Context, phone, code string) { n.otps[phone] = code }
func (n *recordingNotifier) DriverApprovalChanged(context.Context, string, bool, string) {}
func (n *recordingNotifier) AccountBlocked(_ context.Context, phone string, blocked bool) {
	n.blocked[phone] = blocked
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (l stubLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return l.allowed, 30 * time.Second, l.err
}

type memoryRevoker struct {
	revoked map[string]time.Time
}

func (r *memoryRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r.revoked[tokenID] = expiresAt
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

// users

type fakeUsers struct {
	interfaces.UserRepository
	byPhone map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byPhone: map[string]*models.User{}}
}

func (f *fakeUsers) UpsertOTP(_ context.Context, phone, code string, expiresAt time.Time) (bool, error) {
	user, ok := f.byPhone[phone]
	if !ok {
		user = &models.User{ID: primitive.NewObjectID(), Phone: phone, IsActive: true}
		f.byPhone[phone] = user
	}
	user.OTP = &models.OTPCode{Code: code, ExpiresAt: expiresAt}
	return !ok, nil
}

func (f *fakeUsers) ConsumeOTP(_ context.Context, phone, code string, now time.Time) (models.OTPPrincipal, error) {
	user, ok := f.byPhone[phone]
	if !ok || user.OTP == nil || user.OTP.Code != code || !now.Before(user.OTP.ExpiresAt) {
		return nil, utils.ErrRecordNotFound
	}
	user.OTP = nil
	user.IsVerified = true
	user.LastLogin = &now
	return user, nil
}

func (f *fakeUsers) GetAccountStatus(_ context.Context, id primitive.ObjectID) (*models.AccountStatus, error) {
	for _, u := range f.byPhone {
		if u.ID == id {
			return &models.AccountStatus{ID: u.ID, Role: models.RoleUser, IsActive: u.IsActive, IsBlocked: u.IsBlocked}, nil
		}
	}
	return nil, utils.ErrRecordNotFound
}

// drivers

type fakeDrivers struct {
	interfaces.DriverRepository
	drivers map[primitive.ObjectID]*models.Driver
}

func (f *fakeDrivers) GetByID(_ context.Context, id primitive.ObjectID) (*models.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	return d, nil
}

func (f *fakeDrivers) CompleteRegistration(_ context.Context, id primitive.ObjectID, forced bool) (*models.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	d.IsRegistrationComplete = true
	d.Registration.ForcedComplete = forced
	return d, nil
}

// plans

type fakePlans struct {
	interfaces.PlanRepository
	plans map[primitive.ObjectID]*models.Plan
}

func newFakePlans() *fakePlans {
	return &fakePlans{plans: map[primitive.ObjectID]*models.Plan{}}
}

func (f *fakePlans) Create(_ context.Context, plan *models.Plan) error {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	stored := *plan
	f.plans[plan.ID] = &stored
	return nil
}

func (f *fakePlans) Get(_ context.Context, ownerID, id primitive.ObjectID) (*models.Plan, error) {
	plan, ok := f.plans[id]
	if !ok || plan.RestaurantID != ownerID {
		return nil, utils.ErrRecordNotFound
	}
	copied := *plan
	return &copied, nil
}

func (f *fakePlans) DeleteUnsubscribed(_ context.Context, ownerID, id primitive.ObjectID) (bool, error) {
	plan, ok := f.plans[id]
	if !ok || plan.RestaurantID != ownerID || plan.TotalSubscribers > 0 {
		return false, nil
	}
	delete(f.plans, id)
	return true, nil
}

func (f *fakePlans) NameExists(_ context.Context, ownerID primitive.ObjectID, name string, excludeID *primitive.ObjectID) (bool, error) {
	for _, plan := range f.plans {
		if plan.RestaurantID == ownerID && plan.Name == name && (excludeID == nil || *excludeID != plan.ID) {
			return true, nil
		}
	}
	return false, nil
}

// offers

type fakeOffers struct {
	interfaces.OfferRepository
	mu     sync.Mutex
	offers map[primitive.ObjectID]*models.Offer
}

func newFakeOffers(offers ...*models.Offer) *fakeOffers {
	f := &fakeOffers{offers: map[primitive.ObjectID]*models.Offer{}}
	for _, o := range offers {
		f.offers[o.ID] = o
	}
	return f
}

func (f *fakeOffers) GetByCode(_ context.Context, code string) (*models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.offers {
		if o.CouponCode == code {
			copied := *o
			copied.UserUsage = append([]models.OfferUsage(nil), o.UserUsage...)
			return &copied, nil
		}
	}
	return nil, utils.ErrRecordNotFound
}

func (f *fakeOffers) CodeExists(_ context.Context, code string, excludeID *primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.offers {
		if o.CouponCode == code && (excludeID == nil || *excludeID != o.ID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOffers) Create(_ context.Context, offer *models.Offer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	offer.ID = primitive.NewObjectID()
	f.offers[offer.ID] = offer
	return nil
}

func (f *fakeOffers) Get(_ context.Context, ownerID, id primitive.ObjectID) (*models.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[id]
	if !ok || o.RestaurantID != ownerID {
		return nil, utils.ErrRecordNotFound
	}
	copied := *o
	copied.UserUsage = append([]models.OfferUsage(nil), o.UserUsage...)
	return &copied, nil
}

func (f *fakeOffers) Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Offer, error) {
	f.mu.Lock()
	o, ok := f.offers[id]
	if ok && o.RestaurantID == ownerID {
		for key, value := range fields {
			switch key {
			case "total_usage_limit":
				o.TotalUsageLimit = value.(int)
			case "per_user_limit":
				o.PerUserLimit = value.(int)
			case "minimum_order_amount":
				o.MinimumOrderAmount = value.(float64)
			case "maximum_order_value":
				o.MaximumOrderValue = value.(float64)
			}
		}
	}
	f.mu.Unlock()
	return f.Get(ctx, ownerID, id)
}

func (f *fakeOffers) RecordRedemption(_ context.Context, offerID, userID primitive.ObjectID, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[offerID]
	if !ok || o.TotalUsed >= o.TotalUsageLimit || o.UsageFor(userID) >= o.PerUserLimit {
		return false, nil
	}
	o.TotalUsed++
	for i := range o.UserUsage {
		if o.UserUsage[i].UserID == userID {
			o.UserUsage[i].UsageCount++
			o.UserUsage[i].LastUsed = now
			return true, nil
		}
	}
	o.UserUsage = append(o.UserUsage, models.OfferUsage{UserID: userID, UsageCount: 1, LastUsed: now})
	return true, nil
}

// carts

type fakeCarts struct {
	interfaces.CartRepository
	carts map[[2]primitive.ObjectID]models.Cart
	// conflicts makes the next n saves fail as if another writer won
	conflicts int
	saves     int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[[2]primitive.ObjectID]models.Cart{}}
}

func (f *fakeCarts) Get(_ context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := f.carts[[2]primitive.ObjectID{userID, restaurantID}]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	cart.Items = append([]models.CartItem(nil), cart.Items...)
	return &cart, nil
}

func (f *fakeCarts) Save(_ context.Context, cart *models.Cart) error {
	f.saves++
	if f.conflicts > 0 {
		f.conflicts--
		return utils.ErrVersionConflict
	}
	key := [2]primitive.ObjectID{cart.UserID, cart.RestaurantID}
	if stored, ok := f.carts[key]; ok && stored.Version != cart.Version {
		return utils.ErrVersionConflict
	}
	cart.Version++
	stored := *cart
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	f.carts[key] = stored
	return nil
}

type fakeItems struct {
	interfaces.ItemRepository
	items map[primitive.ObjectID]*models.Item
}

func (f *fakeItems) Get(_ context.Context, ownerID, id primitive.ObjectID) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok || item.RestaurantID != ownerID {
		return nil, utils.ErrRecordNotFound
	}
	return item, nil
}

// toggles

type fakeToggles struct {
	values  map[string]bool
	targets []interfaces.ToggleTarget
	missing bool
}

func (f *fakeToggles) Toggle(_ context.Context, target interfaces.ToggleTarget, _ time.Time) (bool, error) {
	if f.missing {
		return false, utils.ErrRecordNotFound
	}
	f.targets = append(f.targets, target)
	key := target.Collection + "/" + target.ID.Hex() + "/" + target.Field
	f.values[key] = !f.values[key]
	return f.values[key], nil
}

type fakeReviews struct {
	interfaces.ReviewRepository
	reviews map[primitive.ObjectID]*models.Review
}

func (f *fakeReviews) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	return r, nil
}
