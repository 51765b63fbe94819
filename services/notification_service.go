package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reservation/models"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

const defaultPageLimit = 25

// ListQuery carries the free-form select/sort/pagination parameters a
// caller may append after the role-based audience predicate.
type ListQuery struct {
	Select string
	Sort   string
	Page   int
	Limit  int
}

// NotificationPage is the resolver result: one page of visible
// notifications plus the totals the caller needs to paginate.
type NotificationPage struct {
	Items      []models.Notification
	Count      int
	Total      int64
	Pagination utils.Pagination
}

// NotificationInput is a create request before audience resolution.
type NotificationInput struct {
	Title          string
	Message        string
	TargetAudience string
	PublishAt      *time.Time
}

// NotificationService resolves which notifications each role may see
// and handles creation/deletion of broadcast notifications.
type NotificationService struct {
	DB    *gorm.DB
	Clock utils.Clock
}

func NewNotificationService(db *gorm.DB, clock utils.Clock) *NotificationService {
	return &NotificationService{DB: db, Clock: clock}
}

// Columns a caller may select or sort by.
var notificationColumns = map[string]bool{
	"id":              true,
	"title":           true,
	"message":         true,
	"creator_id":      true,
	"created_by":      true,
	"restaurant_id":   true,
	"target_audience": true,
	"publish_at":      true,
	"created_at":      true,
}

// VisibleNotifications computes the notifications the requesting user
// may see:
//
//   - admin: everything.
//   - restaurantManager: own notifications, plus published broadcasts
//     aimed at managers or everyone.
//   - customer: published admin/system customer posts, All broadcasts,
//     their own reservation reminders, and customer posts from the
//     managers of restaurants they reserved at. A manager's posts are
//     additionally bounded by the customer's latest reservation date
//     at that restaurant.
func (s *NotificationService) VisibleNotifications(user *models.User, q ListQuery) (*NotificationPage, error) {
	now := s.Clock.Now()

	base := s.DB.Model(&models.Notification{})
	switch user.Role {
	case models.RoleAdmin:
		// no audience restriction

	case models.RoleManager:
		if user.RestaurantID == nil {
			return nil, Preconditionf("Restaurant manager must be associated with a restaurant")
		}
		broadcasts := []string{models.AudienceManagers.String(), models.AudienceAll.String()}
		cond := s.DB.Where("creator_id = ?", user.ID).
			Or(s.DB.Where("target_audience IN ?", broadcasts).Where("publish_at <= ?", now))
		base = base.Where(cond)

	case models.RoleUser:
		cond, err := s.customerPredicate(user, now)
		if err != nil {
			return nil, err
		}
		base = base.Where(cond)

	default:
		return nil, Authorizationf("Invalid user role")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Internal("Cannot count notifications", err)
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	query := base.Session(&gorm.Session{})
	if fields := filterColumns(q.Select); len(fields) > 0 {
		// id and restaurant_id ride along so the preview join works
		fields = append(fields, "id", "restaurant_id")
		query = query.Select(fields)
	}
	query = query.Order(sortClause(q.Sort))
	query = query.Offset((page - 1) * limit).Limit(limit)

	// Restaurant preview for manager-created notifications
	query = query.Preload("Restaurant", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "tel", "province", "img_path")
	})

	var items []models.Notification
	if err := query.Find(&items).Error; err != nil {
		return nil, Internal("Cannot find notifications", err)
	}

	return &NotificationPage{
		Items:      items,
		Count:      len(items),
		Total:      total,
		Pagination: utils.BuildPagination(page, limit, total),
	}, nil
}

// customerPredicate builds the audience condition for a regular user.
func (s *NotificationService) customerPredicate(user *models.User, now time.Time) (*gorm.DB, error) {
	var reservations []models.Reservation
	err := s.DB.Select("id", "restaurant_id", "rev_date").
		Where("user_id = ?", user.ID).
		Find(&reservations).Error
	if err != nil {
		return nil, Internal("Cannot find reservations", err)
	}

	// Latest revDate per restaurant bounds visibility of that
	// manager's customer posts.
	cutoffs := make(map[uint]time.Time)
	targets := make([]string, 0, len(reservations))
	for _, rev := range reservations {
		targets = append(targets, models.AudienceForReservation(rev.ID).String())
		if cur, ok := cutoffs[rev.RestaurantID]; !ok || rev.RevDate.After(cur) {
			cutoffs[rev.RestaurantID] = rev.RevDate
		}
	}

	customers := models.AudienceCustomers.String()

	cond := s.DB.Where(
		s.DB.Where("created_by IN ?", []string{models.CreatedByAdmin, models.CreatedBySystem}).
			Where("target_audience = ?", customers).
			Where("publish_at <= ?", now),
	)
	cond = cond.Or(
		s.DB.Where("target_audience = ?", models.AudienceAll.String()).
			Where("publish_at <= ?", now),
	)
	if len(targets) > 0 {
		cond = cond.Or(
			s.DB.Where("target_audience IN ?", targets).
				Where("publish_at <= ?", now),
		)
	}

	if len(cutoffs) > 0 {
		restaurantIDs := make([]uint, 0, len(cutoffs))
		for id := range cutoffs {
			restaurantIDs = append(restaurantIDs, id)
		}

		var managers []models.User
		err = s.DB.Where("role = ? AND restaurant_id IN ?", models.RoleManager, restaurantIDs).
			Find(&managers).Error
		if err != nil {
			return nil, Internal("Cannot find restaurant managers", err)
		}

		for _, m := range managers {
			cutoff := cutoffs[*m.RestaurantID]
			bound := now
			if cutoff.Before(bound) {
				bound = cutoff
			}
			cond = cond.Or(
				s.DB.Where("creator_id = ?", m.ID).
					Where("created_by = ?", models.CreatedByManager).
					Where("target_audience = ?", customers).
					Where("publish_at <= ?", bound),
			)
		}
	}

	return cond, nil
}

// Create builds a notification according to the creator's role: admins
// choose a broadcast audience, managers always address the customers
// of their own restaurant.
func (s *NotificationService) Create(user *models.User, input NotificationInput) (*models.Notification, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, Validationf("Please add a title and message")
	}

	notif := models.Notification{
		Title:     input.Title,
		Message:   input.Message,
		CreatorID: &user.ID,
		CreatedBy: user.Role,
	}

	switch user.Role {
	case models.RoleAdmin:
		if input.TargetAudience == "" {
			return nil, Validationf("targetAudience is required for admin")
		}
		audience, err := models.ParseAudience(input.TargetAudience)
		if err != nil || !audience.IsBroadcast() {
			return nil, Validationf("targetAudience must be Customers, RestaurantManagers or All")
		}
		notif.TargetAudience = audience

	case models.RoleManager:
		if !user.IsVerifiedManager() {
			return nil, Preconditionf("Restaurant manager must be verified to create notifications")
		}
		if user.RestaurantID == nil {
			return nil, Preconditionf("Restaurant manager must be associated with a restaurant")
		}
		notif.TargetAudience = models.AudienceCustomers
		notif.RestaurantID = user.RestaurantID

	default:
		return nil, Validationf("Invalid user role")
	}

	now := s.Clock.Now()
	notif.PublishAt = now
	if input.PublishAt != nil {
		if input.PublishAt.Before(now) {
			return nil, Validationf("publishAt cannot be in the past")
		}
		notif.PublishAt = input.PublishAt.UTC()
	}
	notif.CreatedAt = now

	if err := s.DB.Create(&notif).Error; err != nil {
		return nil, Internal("Cannot create Notification", err)
	}
	return &notif, nil
}

// Delete removes a notification; only its creator or an admin may.
func (s *NotificationService) Delete(notificationID uint, user *models.User) error {
	var notif models.Notification
	if err := s.DB.First(&notif, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("No notification found with ID of %d", notificationID)
		}
		return Internal("Cannot find notification", err)
	}

	isCreator := notif.CreatorID != nil && *notif.CreatorID == user.ID
	if user.Role != models.RoleAdmin && !isCreator {
		return Authorizationf("Not authorized to delete this notification")
	}

	if err := s.DB.Delete(&models.Notification{}, notif.ID).Error; err != nil {
		return Internal("Cannot delete the notification", err)
	}
	return nil
}

// filterColumns keeps only known notification columns from a comma
// separated select list.
func filterColumns(sel string) []string {
	if sel == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(sel, ",") {
		f = strings.TrimSpace(f)
		if notificationColumns[f] {
			out = append(out, f)
		}
	}
	return out
}

// sortClause converts a comma separated sort list ("-publish_at" for
// descending) into an ORDER BY clause, defaulting to newest first.
func sortClause(sort string) string {
	if sort == "" {
		return "created_at desc"
	}
	var parts []string
	for _, f := range strings.Split(sort, ",") {
		f = strings.TrimSpace(f)
		desc := strings.HasPrefix(f, "-")
		f = strings.TrimPrefix(f, "-")
		if !notificationColumns[f] {
			continue
		}
		if desc {
			f += " desc"
		}
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return "created_at desc"
	}
	return strings.Join(parts, ", ")
}
