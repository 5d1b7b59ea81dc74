//go:build e2e

package booking_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"deskhive/internal/domain/user"
	"deskhive/internal/handler/dto/request"
	"deskhive/internal/handler/dto/response"
	"deskhive/tests/common/dbtest"
	"deskhive/tests/common/httptest"
	"deskhive/tests/e2e"
	"deskhive/tests/e2e/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL             = "/api/bookings"
	propertyAvailabilityURL = "/api/properties/%s/availability"
	propertyQuoteURL        = "/api/properties/%s/quote"
)

type BookingSuite struct {
	e2e.SharedSuite
	auth *helper.JWTTestHelper
}

func (s *BookingSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
	s.auth = helper.NewJWTTestHelper(s.Config.JWT)
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// futureSlot returns a slot safely past the cancellation window.
func futureSlot(d time.Duration) (time.Time, time.Time) {
	start := time.Now().UTC().Truncate(time.Hour).Add(96 * time.Hour)
	return start, start.Add(d)
}

func slotQuery(baseURL string, start, end time.Time, kind string) string {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))
	q.Set("type", kind)
	return baseURL + "?" + q.Encode()
}

// =============================================================================
// TestCreateBooking - Booking creation API tests
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: renter books an open hourly slot", func() {
		t := s.T()

		ownerID := uuid.New()
		renterID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		token := s.auth.GenerateToken(t, renterID, user.RoleRenter)

		start, end := futureSlot(3 * time.Hour)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, propertyID, created.PropertyID)
		require.Equal(t, renterID, created.RenterID)
		require.Equal(t, "pending", created.Status)
		require.Equal(t, int64(3*dbtest.FixtureHourlyRateCents), created.AmountCents)

		// Detail is readable by its renter
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusOK, dw.Code)

		var detail response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &detail))
		require.Equal(t, created.ID, detail.ID)
		require.Equal(t, "Loft Studio", detail.PropertyName)
	})

	s.Run("Error case: overlapping slot is refused", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Corner Office")
		start, end := futureSlot(4 * time.Hour)
		dbtest.CreateTestBooking(t, s.DB, propertyID, uuid.New(), "hourly", start, end, "confirmed")

		token := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   start.Add(time.Hour),
			EndTime:     end.Add(time.Hour),
			BookingType: "hourly",
		}, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Normal case: back-to-back slots do not conflict", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Corner Office")
		start, end := futureSlot(2 * time.Hour)
		dbtest.CreateTestBooking(t, s.DB, propertyID, uuid.New(), "hourly", start, end, "confirmed")

		// [end, end+2h) touches the existing booking only at its boundary
		token := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   end,
			EndTime:     end.Add(2 * time.Hour),
			BookingType: "hourly",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("Error case: slot covered by a maintenance block is refused", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Garden Room")
		start, end := futureSlot(3 * time.Hour)
		dbtest.CreateTestBlock(t, s.DB, propertyID, start, end, "maintenance")

		token := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		}, token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Error case: unavailable property cannot be booked", func() {
		t := s.T()

		propertyID := dbtest.CreateTestPropertyWithStatus(t, s.DB, uuid.New(), "Closed Space", "unavailable")
		token := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)

		start, end := futureSlot(2 * time.Hour)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		}, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Error case: unknown property returns 404", func() {
		t := s.T()

		token := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		start, end := futureSlot(2 * time.Hour)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  uuid.New(),
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		}, token)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("Error case: request without token is rejected", func() {
		t := s.T()

		start, end := futureSlot(2 * time.Hour)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  uuid.New(),
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestConcurrentAdmission - exactly one of many simultaneous requests wins
// =============================================================================

func (s *BookingSuite) TestConcurrentAdmission() {
	s.Run("Normal case: one winner among concurrent requests for the same slot", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Contested Desk")

		start, end := futureSlot(2 * time.Hour)
		body, err := json.Marshal(request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		})
		require.NoError(t, err)

		const n = 8
		tokens := make([]string, n)
		for i := range tokens {
			tokens[i] = s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		}

		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := stdhttptest.NewRequest(http.MethodPost, bookingsURL, bytes.NewReader(body))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+tokens[i])
				w := stdhttptest.NewRecorder()
				s.Router.ServeHTTP(w, req)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		winners, conflicts := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				winners++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, 1, winners, "exactly one request should win the slot, got codes %v", codes)
		require.Equal(t, n-1, conflicts, "every loser should see a conflict, got codes %v", codes)

		// The database backstop agrees: a single slot-occupying row exists
		var count int
		err = s.DB.QueryRow(t.Context(),
			"SELECT COUNT(*) FROM bookings WHERE property_id = $1 AND status IN ('pending', 'confirmed')",
			propertyID).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}

// =============================================================================
// TestBookingLifecycle - confirm / reject / cancel transitions
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	createBooking := func(t *testing.T, propertyID uuid.UUID, renterToken string, start, end time.Time) uuid.UUID {
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, request.CreateBookingRequest{
			PropertyID:  propertyID,
			StartTime:   start,
			EndTime:     end,
			BookingType: "hourly",
		}, renterToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		return created.ID
	}

	s.Run("Normal case: owner confirms then renter cancels outside the window", func() {
		t := s.T()

		ownerID := uuid.New()
		renterID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		ownerToken := s.auth.GenerateToken(t, ownerID, user.RoleOwner)
		renterToken := s.auth.GenerateToken(t, renterID, user.RoleRenter)

		start, end := futureSlot(3 * time.Hour)
		bookingID := createBooking(t, propertyID, renterToken, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/confirm", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var confirmed response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &confirmed))
		require.Equal(t, "confirmed", confirmed.Status)
		require.NotNil(t, confirmed.ConfirmedAt)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/cancel", nil, renterToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var cancelled response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &cancelled))
		require.Equal(t, "cancelled", cancelled.Status)
		require.NotNil(t, cancelled.CancelledAt)
		// The earlier confirmation timestamp survives the cancel
		require.NotNil(t, cancelled.ConfirmedAt)
	})

	s.Run("Error case: cancel inside the 48h window is refused", func() {
		t := s.T()

		ownerID := uuid.New()
		renterID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		ownerToken := s.auth.GenerateToken(t, ownerID, user.RoleOwner)
		renterToken := s.auth.GenerateToken(t, renterID, user.RoleRenter)

		// Starts in 10 hours: inside the window but still bookable
		start := time.Now().UTC().Truncate(time.Hour).Add(10 * time.Hour)
		bookingID := createBooking(t, propertyID, renterToken, start, start.Add(2*time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/confirm", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/cancel", nil, renterToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Normal case: owner rejects a pending booking", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		ownerToken := s.auth.GenerateToken(t, ownerID, user.RoleOwner)
		renterToken := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)

		start, end := futureSlot(2 * time.Hour)
		bookingID := createBooking(t, propertyID, renterToken, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/reject",
			request.RejectBookingRequest{Reason: "space under renovation"}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var rejected response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &rejected))
		require.Equal(t, "rejected", rejected.Status)
		require.NotNil(t, rejected.RejectReason)
		require.Equal(t, "space under renovation", *rejected.RejectReason)
	})

	s.Run("Error case: non-owner cannot confirm", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		renterToken := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		strangerToken := s.auth.GenerateToken(t, uuid.New(), user.RoleOwner)

		start, end := futureSlot(2 * time.Hour)
		bookingID := createBooking(t, propertyID, renterToken, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/confirm", nil, strangerToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("Error case: confirming twice is refused", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		ownerToken := s.auth.GenerateToken(t, ownerID, user.RoleOwner)
		renterToken := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)

		start, end := futureSlot(2 * time.Hour)
		bookingID := createBooking(t, propertyID, renterToken, start, end)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/confirm", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/confirm", nil, ownerToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}

// =============================================================================
// TestCompleteBooking - admin completion of elapsed bookings
// =============================================================================

func (s *BookingSuite) TestCompleteBooking() {
	s.Run("Normal case: admin completes an elapsed confirmed booking, idempotently", func() {
		t := s.T()

		ownerID := uuid.New()
		propertyID := dbtest.CreateTestProperty(t, s.DB, ownerID, "Loft Studio")
		now := time.Now().UTC()
		bookingID := dbtest.CreateTestBooking(t, s.DB, propertyID, uuid.New(), "hourly",
			now.Add(-5*time.Hour), now.Add(-2*time.Hour), "confirmed")

		adminToken := s.auth.GenerateToken(t, uuid.New(), user.RoleAdmin)
		completeURL := bookingsURL + "/" + bookingID.String() + "/complete"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, completeURL, nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var completed response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &completed))
		require.Equal(t, "completed", completed.Status)
		require.NotNil(t, completed.CompletedAt)

		// Replayed completion is a no-op success
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, completeURL, nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("Error case: completion before the end time is refused", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		start, end := futureSlot(2 * time.Hour)
		bookingID := dbtest.CreateTestBooking(t, s.DB, propertyID, uuid.New(), "hourly", start, end, "confirmed")

		adminToken := s.auth.GenerateToken(t, uuid.New(), user.RoleAdmin)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/complete", nil, adminToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Error case: renter cannot complete", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		now := time.Now().UTC()
		bookingID := dbtest.CreateTestBooking(t, s.DB, propertyID, uuid.New(), "hourly",
			now.Add(-5*time.Hour), now.Add(-2*time.Hour), "confirmed")

		renterToken := s.auth.GenerateToken(t, uuid.New(), user.RoleRenter)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+bookingID.String()+"/complete", nil, renterToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

// =============================================================================
// TestAvailabilityAndQuote - public slot endpoints
// =============================================================================

func (s *BookingSuite) TestAvailabilityAndQuote() {
	s.Run("Normal case: open slot reports available, booked slot does not", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		baseURL := fmt.Sprintf(propertyAvailabilityURL, propertyID)
		start, end := futureSlot(2 * time.Hour)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, slotQuery(baseURL, start, end, "hourly"), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var avail response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &avail))
		require.True(t, avail.Available)

		dbtest.CreateTestBooking(t, s.DB, propertyID, uuid.New(), "hourly", start, end, "pending")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, slotQuery(baseURL, start.Add(time.Hour), end.Add(time.Hour), "hourly"), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &avail))
		require.False(t, avail.Available)
	})

	s.Run("Normal case: hourly quote bills ceiling units", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		baseURL := fmt.Sprintf(propertyQuoteURL, propertyID)
		start, _ := futureSlot(0)

		// 2h30m rounds up to 3 hourly units
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			slotQuery(baseURL, start, start.Add(2*time.Hour+30*time.Minute), "hourly"), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var quote response.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		require.Equal(t, int64(3), quote.Units)
		require.Equal(t, int64(3*dbtest.FixtureHourlyRateCents), quote.AmountCents)
	})

	s.Run("Normal case: seven daily units earn the weekly discount", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		baseURL := fmt.Sprintf(propertyQuoteURL, propertyID)
		start, _ := futureSlot(0)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			slotQuery(baseURL, start, start.Add(7*24*time.Hour), "daily"), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var quote response.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		require.Equal(t, int64(7), quote.Units)
		// 7 * 10000 with the fixture's 10% weekly discount
		require.Equal(t, int64(63000), quote.AmountCents)
	})

	s.Run("Normal case: a single monthly unit takes the flat monthly rate", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		baseURL := fmt.Sprintf(propertyQuoteURL, propertyID)
		start, _ := futureSlot(0)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			slotQuery(baseURL, start, start.Add(30*24*time.Hour), "monthly"), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var quote response.QuoteResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &quote))
		require.Equal(t, int64(1), quote.Units)
		require.Equal(t, int64(dbtest.FixtureMonthlyRateCents), quote.AmountCents)
	})

	s.Run("Error case: malformed start time returns 400", func() {
		t := s.T()

		propertyID := dbtest.CreateTestProperty(t, s.DB, uuid.New(), "Loft Studio")
		badURL := fmt.Sprintf(propertyQuoteURL, propertyID) + "?start=yesterday&end=tomorrow&type=hourly"
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, badURL, nil, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
