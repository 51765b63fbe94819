package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-reservation/models"
)

func newNotificationService(t *testing.T) *NotificationService {
	t.Helper()
	db := setupTestDB(t)
	return NewNotificationService(db, &fakeClock{now: testNow})
}

func seedManager(t *testing.T, svc *NotificationService, restaurantID uint) *models.User {
	t.Helper()
	manager := seedUser(t, svc.DB, models.RoleManager)
	verified := true
	manager.Verified = &verified
	manager.RestaurantID = &restaurantID
	require.NoError(t, svc.DB.Save(manager).Error)
	return manager
}

func seedNotification(t *testing.T, svc *NotificationService, creator *models.User, createdBy string, audience models.Audience, publishAt time.Time) *models.Notification {
	t.Helper()
	notif := models.Notification{
		Title:          "Test",
		Message:        "Test message",
		CreatedBy:      createdBy,
		TargetAudience: audience,
		PublishAt:      publishAt,
		CreatedAt:      testNow,
	}
	if creator != nil {
		notif.CreatorID = &creator.ID
		notif.RestaurantID = creator.RestaurantID
	}
	require.NoError(t, svc.DB.Create(&notif).Error)
	return &notif
}

func TestVisibleNotificationsAdminSeesAll(t *testing.T) {
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)
	admin := seedUser(t, svc.DB, models.RoleAdmin)
	manager := seedManager(t, svc, rest.ID)

	future := testNow.Add(48 * time.Hour)
	seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceAll, testNow)
	seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers, future)
	seedNotification(t, svc, nil, models.CreatedBySystem, models.AudienceForReservation(42), future)

	page, err := svc.VisibleNotifications(admin, ListQuery{})
	require.NoError(t, err)
	// Unpublished and reservation-targeted items included, no gating
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 3, page.Count)
}

func TestVisibleNotificationsManager(t *testing.T) {
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)
	admin := seedUser(t, svc.DB, models.RoleAdmin)
	manager := seedManager(t, svc, rest.ID)
	otherRest := seedRestaurant(t, svc.DB, 10)
	otherManager := seedManager(t, svc, otherRest.ID)

	// Own post, even unpublished
	own := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers, testNow.Add(24*time.Hour))
	// Published broadcasts to managers/all
	toManagers := seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceManagers, testNow.Add(-time.Hour))
	toAll := seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceAll, testNow)
	// Not visible: unpublished broadcast, another manager's post
	seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceManagers, testNow.Add(time.Hour))
	seedNotification(t, svc, otherManager, models.CreatedByManager, models.AudienceCustomers, testNow.Add(-time.Hour))

	page, err := svc.VisibleNotifications(manager, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	ids := make(map[uint]bool)
	for _, n := range page.Items {
		ids[n.ID] = true
	}
	assert.True(t, ids[own.ID])
	assert.True(t, ids[toManagers.ID])
	assert.True(t, ids[toAll.ID])
}

func TestVisibleNotificationsManagerWithoutRestaurant(t *testing.T) {
	svc := newNotificationService(t)
	manager := seedUser(t, svc.DB, models.RoleManager)

	_, err := svc.VisibleNotifications(manager, ListQuery{})
	assert.Equal(t, KindPrecondition, AsServiceError(err).Kind)
}

func TestVisibleNotificationsCustomerCutoff(t *testing.T) {
	// A manager post published after the customer's latest reservation
	// date at that restaurant stays hidden
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)
	manager := seedManager(t, svc, rest.ID)
	customer := seedUser(t, svc.DB, models.RoleUser)

	cutoff := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)
	seedReservation(t, svc.DB, customer.ID, rest.ID, cutoff, 2)

	hidden := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers,
		time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC))
	visible := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers,
		time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC))

	page, err := svc.VisibleNotifications(customer, ListQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, visible.ID, page.Items[0].ID)
	assert.NotEqual(t, hidden.ID, page.Items[0].ID)
}

func TestVisibleNotificationsCustomerLatestReservationWins(t *testing.T) {
	// A later reservation extends the cutoff; earlier ones no longer
	// restrict visibility
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)
	manager := seedManager(t, svc, rest.ID)
	customer := seedUser(t, svc.DB, models.RoleUser)

	seedReservation(t, svc.DB, customer.ID, rest.ID,
		time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC), 2)
	seedReservation(t, svc.DB, customer.ID, rest.ID,
		time.Date(2025, 5, 10, 19, 0, 0, 0, time.UTC), 2)

	post := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers,
		time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC))

	page, err := svc.VisibleNotifications(customer, ListQuery{})
	require.NoError(t, err)

	ids := make(map[uint]bool)
	for _, n := range page.Items {
		ids[n.ID] = true
	}
	assert.True(t, ids[post.ID])
}

func TestVisibleNotificationsCustomerUnion(t *testing.T) {
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)
	admin := seedUser(t, svc.DB, models.RoleAdmin)
	manager := seedManager(t, svc, rest.ID)
	customer := seedUser(t, svc.DB, models.RoleUser)

	rev := seedReservation(t, svc.DB, customer.ID, rest.ID,
		time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC), 2)

	adminPost := seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceCustomers, testNow.Add(-time.Hour))
	allPost := seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceAll, testNow)
	reminder := seedNotification(t, svc, nil, models.CreatedBySystem, models.AudienceForReservation(rev.ID), testNow.Add(-time.Minute))
	// Hidden: published in the future, targeted at managers, or
	// someone else's reminder
	seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceCustomers, testNow.Add(time.Hour))
	seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceManagers, testNow.Add(-time.Hour))
	seedNotification(t, svc, nil, models.CreatedBySystem, models.AudienceForReservation(rev.ID+100), testNow.Add(-time.Minute))
	// Manager post inside the cutoff (reservation is in the future)
	managerPost := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers, testNow.Add(-2*time.Hour))

	page, err := svc.VisibleNotifications(customer, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)

	ids := make(map[uint]bool)
	for _, n := range page.Items {
		ids[n.ID] = true
	}
	assert.True(t, ids[adminPost.ID])
	assert.True(t, ids[allPost.ID])
	assert.True(t, ids[reminder.ID])
	assert.True(t, ids[managerPost.ID])
}

func TestVisibleNotificationsPagination(t *testing.T) {
	svc := newNotificationService(t)
	admin := seedUser(t, svc.DB, models.RoleAdmin)

	for i := 0; i < 5; i++ {
		seedNotification(t, svc, admin, models.CreatedByAdmin, models.AudienceAll, testNow)
	}

	page, err := svc.VisibleNotifications(admin, ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, int64(5), page.Total)
	require.NotNil(t, page.Pagination.Next)
	require.NotNil(t, page.Pagination.Prev)
	assert.Equal(t, 3, page.Pagination.Next.Page)
	assert.Equal(t, 1, page.Pagination.Prev.Page)

	last, err := svc.VisibleNotifications(admin, ListQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, last.Count)
	assert.Nil(t, last.Pagination.Next)
	require.NotNil(t, last.Pagination.Prev)
}

func TestVisibleNotificationsUnknownRole(t *testing.T) {
	svc := newNotificationService(t)
	ghost := &models.User{ID: 99, Role: "guest"}

	_, err := svc.VisibleNotifications(ghost, ListQuery{})
	assert.Equal(t, KindAuthorization, AsServiceError(err).Kind)
}

func TestCreateNotificationAdmin(t *testing.T) {
	svc := newNotificationService(t)
	admin := seedUser(t, svc.DB, models.RoleAdmin)

	_, err := svc.Create(admin, NotificationInput{Title: "T", Message: "M"})
	se := AsServiceError(err)
	assert.Equal(t, KindValidation, se.Kind)
	assert.Contains(t, se.Message, "targetAudience is required for admin")

	notif, err := svc.Create(admin, NotificationInput{Title: "T", Message: "M", TargetAudience: "All"})
	require.NoError(t, err)
	assert.Equal(t, models.AudienceAll, notif.TargetAudience)
	assert.Equal(t, models.CreatedByAdmin, notif.CreatedBy)
	assert.True(t, notif.PublishAt.Equal(testNow))

	// Reservation identities are not a valid broadcast choice here
	_, err = svc.Create(admin, NotificationInput{Title: "T", Message: "M", TargetAudience: "123"})
	assert.Equal(t, KindValidation, AsServiceError(err).Kind)
}

func TestCreateNotificationManager(t *testing.T) {
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)

	unverified := seedUser(t, svc.DB, models.RoleManager)
	_, err := svc.Create(unverified, NotificationInput{Title: "T", Message: "M"})
	assert.Equal(t, KindPrecondition, AsServiceError(err).Kind)

	manager := seedManager(t, svc, rest.ID)
	notif, err := svc.Create(manager, NotificationInput{Title: "Promo", Message: "Special offer"})
	require.NoError(t, err)
	// Audience is forced to Customers and the restaurant is stamped
	assert.Equal(t, models.AudienceCustomers, notif.TargetAudience)
	require.NotNil(t, notif.RestaurantID)
	assert.Equal(t, rest.ID, *notif.RestaurantID)
	assert.Equal(t, models.CreatedByManager, notif.CreatedBy)
}

func TestCreateNotificationInvalidRoleAndPastPublish(t *testing.T) {
	svc := newNotificationService(t)
	customer := seedUser(t, svc.DB, models.RoleUser)

	_, err := svc.Create(customer, NotificationInput{Title: "T", Message: "M"})
	se := AsServiceError(err)
	assert.Equal(t, KindValidation, se.Kind)
	assert.Contains(t, se.Message, "Invalid user role")

	admin := seedUser(t, svc.DB, models.RoleAdmin)
	past := testNow.Add(-time.Hour)
	_, err = svc.Create(admin, NotificationInput{Title: "T", Message: "M", TargetAudience: "All", PublishAt: &past})
	assert.Equal(t, KindValidation, AsServiceError(err).Kind)
}

func TestDeleteNotificationAuthorization(t *testing.T) {
	svc := newNotificationService(t)
	rest := seedRestaurant(t, svc.DB, 10)
	manager := seedManager(t, svc, rest.ID)
	admin := seedUser(t, svc.DB, models.RoleAdmin)
	customer := seedUser(t, svc.DB, models.RoleUser)

	err := svc.Delete(999, admin)
	assert.Equal(t, KindNotFound, AsServiceError(err).Kind)

	notif := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers, testNow)
	err = svc.Delete(notif.ID, customer)
	assert.Equal(t, KindAuthorization, AsServiceError(err).Kind)

	require.NoError(t, svc.Delete(notif.ID, manager))

	other := seedNotification(t, svc, manager, models.CreatedByManager, models.AudienceCustomers, testNow)
	require.NoError(t, svc.Delete(other.ID, admin))
}
