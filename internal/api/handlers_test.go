package api

import (
	"context"
	"net/http"
	"syncfit/connect-api/internal/domain"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSaveUserIsIdempotent(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/users", "", gin.H{"name": "Ari", "email": "ari@example.com", "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	ack := decode[InsertAck](t, w)
	assert.True(t, ack.Acknowledged)
	assert.False(t, ack.InsertedID.IsZero())

	w = s.do(http.MethodPost, "/users", "", gin.H{"name": "Ari", "email": "ari@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"user already exists"}`, w.Body.String())

	w = s.do(http.MethodGet, "/users/role/ari@example.com", s.token("ari@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	role := decode[RoleResponse](t, w)
	assert.Equal(t, domain.RoleMember, role.Role)
}

func TestGetRoleUnknownUser(t *testing.T) {
	s := newTestServer(t)
	token := s.userWithRole("ari@example.com", domain.RoleMember)

	w := s.do(http.MethodGet, "/users/role/ghost@example.com", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromotionFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	applicantToken := s.userWithRole("dana@example.com", domain.RoleMember)

	w := s.do(http.MethodPost, "/trainer-applications", applicantToken, gin.H{
		"name":   "Dana",
		"skills": []string{"yoga", "pilates"},
		"timeSlotOfDays": gin.H{
			"Mon": []gin.H{{"time": "08:00 - 09:00"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	appID := decode[InsertAck](t, w).InsertedID

	// The applicant cannot see or promote applications.
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/trainer-applications", applicantToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/trainer-applications/admin/"+appID.Hex(), applicantToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/forums", applicantToken, gin.H{"title": "t", "body": "b"}).Code)

	w = s.do(http.MethodGet, "/trainer-applications", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := decode[[]domain.TrainerApplication](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, "dana@example.com", pending[0].Email)
	assert.Equal(t, domain.ApplicationPending, pending[0].Status)

	w = s.do(http.MethodPatch, "/trainer-applications/admin/"+appID.Hex(), adminToken, gin.H{"salary": 2500})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	promoted := decode[PromoteResponse](t, w)
	require.NotNil(t, promoted.Trainer)
	assert.Equal(t, appID, promoted.Trainer.ID)
	assert.Equal(t, 2500.0, promoted.Trainer.Salary)
	assert.Equal(t, domain.PaymentPending, promoted.Trainer.Payment)

	// Second promotion of the same application finds nothing pending.
	w = s.do(http.MethodPatch, "/trainer-applications/admin/"+appID.Hex(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/trainers", "", nil)
	trainers := decode[[]domain.Trainer](t, w)
	require.Len(t, trainers, 1)
	assert.Equal(t, "Dana", trainers[0].Name)

	w = s.do(http.MethodGet, "/trainer-applications", adminToken, nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	// Same token, new role.
	w = s.do(http.MethodPost, "/forums", applicantToken, gin.H{"title": "Welcome", "body": "First class Monday"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/forums", "", nil)
	posts := decode[[]domain.ForumPost](t, w)
	require.Len(t, posts, 1)
	assert.Equal(t, domain.RoleTrainer, posts[0].AuthorRole)
	assert.Equal(t, "dana@example.com", posts[0].AuthorEmail)
}

func TestPromoteWithoutBodyUsesDefaultSalary(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	applicantToken := s.userWithRole("lee@example.com", domain.RoleMember)

	w := s.do(http.MethodPost, "/trainer-applications", applicantToken, gin.H{"name": "Lee"})
	require.Equal(t, http.StatusOK, w.Code)
	appID := decode[InsertAck](t, w).InsertedID

	w = s.do(http.MethodPatch, "/trainer-applications/admin/"+appID.Hex(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1000.0, decode[PromoteResponse](t, w).Trainer.Salary)
}

func TestSubmitApplicationBelongsToCaller(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	memberToken := s.userWithRole("a@example.com", domain.RoleMember)
	s.userWithRole("b@example.com", domain.RoleMember)

	w := s.do(http.MethodPost, "/trainer-applications", memberToken, gin.H{"name": "A", "email": "b@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/trainer-applications", adminToken, nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	// Matching the token is accepted, ignoring case.
	w = s.do(http.MethodPost, "/trainer-applications", memberToken, gin.H{"name": "A", "email": "A@Example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/trainer-applications", adminToken, nil)
	pending := decode[[]domain.TrainerApplication](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, "a@example.com", pending[0].Email)

	w = s.do(http.MethodGet, "/users/role/b@example.com", adminToken, nil)
	assert.Equal(t, domain.RoleMember, decode[RoleResponse](t, w).Role)
}

func TestSubmitApplicationTwice(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	applicantToken := s.userWithRole("lee@example.com", domain.RoleMember)

	w := s.do(http.MethodPost, "/trainer-applications", applicantToken, gin.H{"name": "Lee"})
	require.Equal(t, http.StatusOK, w.Code)
	appID := decode[InsertAck](t, w).InsertedID

	w = s.do(http.MethodPost, "/trainer-applications", applicantToken, gin.H{"name": "Lee"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// Once rejected, the member may apply again.
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/trainer-applications/admin/"+appID.Hex(), adminToken, nil).Code)
	w = s.do(http.MethodPost, "/trainer-applications", applicantToken, gin.H{"name": "Lee"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRejectApplication(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	applicantToken := s.userWithRole("lee@example.com", domain.RoleMember)

	w := s.do(http.MethodPost, "/trainer-applications", applicantToken, gin.H{"name": "Lee"})
	appID := decode[InsertAck](t, w).InsertedID

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/trainer-applications/admin/"+appID.Hex(), adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/trainer-applications/admin/"+appID.Hex(), adminToken, nil).Code)
	assert.Equal(t, http.StatusInternalServerError, s.do(http.MethodDelete, "/trainer-applications/admin/bogus", adminToken, nil).Code)
}

func TestBookingAndTimeSlots(t *testing.T) {
	s := newTestServer(t)
	memberToken := s.userWithRole("member@example.com", domain.RoleMember)
	trainerToken := s.userWithRole("sam@example.com", domain.RoleTrainer)
	trainerID := s.store.AddTrainer(domain.Trainer{
		TrainerProfile: domain.TrainerProfile{
			Name:  "Sam",
			Email: "sam@example.com",
			TimeSlotOfDays: map[string][]domain.TimeSlot{
				"Tue": {{Time: "07:00 - 08:00", Classes: []string{"HIIT"}}},
			},
		},
		Role: domain.RoleTrainer,
	})

	w := s.do(http.MethodGet, "/get-timeslot/"+trainerID.Hex()+"/Tue/0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "07:00 - 08:00", decode[domain.TimeSlot](t, w).Time)

	for _, path := range []string{
		"/get-timeslot/" + trainerID.Hex() + "/Tue/1",
		"/get-timeslot/" + trainerID.Hex() + "/Sun/0",
		"/get-timeslot/" + trainerID.Hex() + "/Tue/first",
		"/get-timeslot/" + primitive.NewObjectID().Hex() + "/Tue/0",
	} {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, "", nil).Code, path)
	}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/trainer-bookings", "", gin.H{}).Code)

	w = s.do(http.MethodPost, "/trainer-bookings", memberToken, gin.H{
		"trainerId": trainerID.Hex(),
		"day":       "Tue",
		"slotIndex": 0,
		"package":   gin.H{"name": "Gold", "price": 99},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/trainer-bookings/trainer/sam@example.com", trainerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bookings := decode[[]domain.Booking](t, w)
	require.Len(t, bookings, 1)
	assert.Equal(t, "member@example.com", bookings[0].MemberEmail)
	require.NotNil(t, bookings[0].Slot)
	assert.Equal(t, []string{"HIIT"}, bookings[0].Slot.Classes)

	w = s.do(http.MethodGet, "/all-bookings/member/member@example.com", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Booking](t, w), 1)

	w = s.do(http.MethodPost, "/trainer-bookings", memberToken, gin.H{"trainerId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsCountDistinctEmails(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	memberToken := s.userWithRole("member@example.com", domain.RoleMember)

	for _, email := range []string{"a@example.com", "a@example.com", "b@example.com"} {
		w := s.do(http.MethodPost, "/subscriptions", "", gin.H{"email": email})
		require.Equal(t, http.StatusOK, w.Code)
	}
	for _, member := range []string{"m1@example.com", "m1@example.com"} {
		w := s.do(http.MethodPost, "/trainer-bookings", memberToken, gin.H{"memberEmail": member, "trainerEmail": "sam@example.com"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, "/stats/subscribers", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalSubscribers":2}`, w.Body.String())

	w = s.do(http.MethodGet, "/stats/paid-members", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalPaidMembers":1}`, w.Body.String())

	w = s.do(http.MethodGet, "/subscribers", adminToken, nil)
	assert.Len(t, decode[[]domain.Subscriber](t, w), 3)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/stats/subscribers", memberToken, nil).Code)
}

func TestPackagesOrderIsStable(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	for _, name := range []string{"Silver", "Gold", "Diamond"} {
		_, err := s.packages.Create(ctx, &domain.Package{Name: name})
		require.NoError(t, err)
	}

	first := s.do(http.MethodGet, "/packages", "", nil).Body.String()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, s.do(http.MethodGet, "/packages", "", nil).Body.String())
	}
	packages := decode[[]domain.Package](t, s.do(http.MethodGet, "/packages", "", nil))
	require.Len(t, packages, 3)
	assert.Equal(t, "Silver", packages[0].Name)
}

func TestEmptyListsAreArrays(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/reviews", "/trainers", "/forums", "/classes", "/packages", "/images"} {
		w := s.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `[]`, w.Body.String(), path)
	}
}

func TestReviewsAndClasses(t *testing.T) {
	s := newTestServer(t)
	memberToken := s.userWithRole("member@example.com", domain.RoleMember)
	trainerToken := s.userWithRole("sam@example.com", domain.RoleTrainer)

	w := s.do(http.MethodPost, "/reviews", memberToken, gin.H{"rating": 4.5, "comment": "Great gym"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reviews := decode[[]domain.Review](t, s.do(http.MethodGet, "/reviews", "", nil))
	require.Len(t, reviews, 1)
	assert.Equal(t, "member@example.com", reviews[0].Email)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/classes", memberToken, gin.H{"name": "Spin"}).Code)

	w = s.do(http.MethodPost, "/classes", trainerToken, gin.H{"name": "Spin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	classID := decode[InsertAck](t, w).InsertedID

	w = s.do(http.MethodGet, "/class-details/"+classID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	class := decode[domain.Class](t, w)
	assert.Equal(t, "Spin", class.Name)
	assert.Equal(t, "sam@example.com", class.CreatedBy)
}

func TestPaymentsWithoutProcessor(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.userWithRole("admin@example.com", domain.RoleAdmin)
	trainerID := s.store.AddTrainer(domain.Trainer{
		TrainerProfile: domain.TrainerProfile{Name: "Sam", Email: "sam@example.com"},
		Role:           domain.RoleTrainer,
		Payment:        domain.PaymentPending,
	})

	w := s.do(http.MethodPost, "/create-payment-intent", adminToken, gin.H{"price": 100})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodPost, "/trainers-payment", adminToken, gin.H{"trainerId": trainerID.Hex(), "amount": 1500})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	trainer := decode[domain.Trainer](t, s.do(http.MethodGet, "/trainer-details/"+trainerID.Hex(), "", nil))
	assert.Equal(t, domain.PaymentPaid, trainer.Payment)

	w = s.do(http.MethodPost, "/trainers-payment", adminToken, gin.H{"trainerId": primitive.NewObjectID().Hex(), "amount": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/payments", adminToken, nil)
	payments := decode[[]domain.Payment](t, w)
	require.Len(t, payments, 1)
	assert.Equal(t, "sam@example.com", payments[0].TrainerEmail)
}
