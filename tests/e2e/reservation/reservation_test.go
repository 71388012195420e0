//go:build e2e

package reservation_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"reservation-engine/tests/common/dbtest"
	"reservation-engine/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/reservations"
	availabilityURL = "/availability"
	maintenanceURL  = "/maintenance"
)

type reservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(reservationSuite))
}

func (s *reservationSuite) postJSON(url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(http.MethodPost, url, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func (s *reservationSuite) do(method, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func (s *reservationSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func commitBody(resourceID, clientID string, quantity int) map[string]any {
	return map[string]any{
		"resourceId": resourceID,
		"clientId":   clientID,
		"quantity":   quantity,
	}
}

func (s *reservationSuite) TestCommitFlow() {
	s.Run("commit confirms and decrements availability", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-101", "meeting-room", 10))

		rec := s.postJSON(reservationsURL, commitBody("room-101", "alice", 3))
		s.Equal(http.StatusCreated, rec.Code)

		body := s.decode(rec)
		s.Equal("CONFIRMED", body["status"])
		reservationID := body["reservationId"].(string)
		s.NotEmpty(reservationID)

		// The decision is readable back.
		got := s.do(http.MethodGet, reservationsURL+"/"+reservationID)
		s.Equal(http.StatusOK, got.Code)
		s.Equal("CONFIRMED", s.decode(got)["status"])

		// Availability reflects the committed booking.
		avail := s.do(http.MethodGet, availabilityURL+"/room-101")
		s.Equal(http.StatusOK, avail.Code)
		availBody := s.decode(avail)
		s.EqualValues(7, availBody["remainingCapacity"])
		s.EqualValues(3, availBody["currentBookings"])
	})

	s.Run("commit beyond capacity persists a rejection", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-102", "meeting-room", 2))

		rec := s.postJSON(reservationsURL, commitBody("room-102", "alice", 2))
		s.Equal(http.StatusCreated, rec.Code)

		rec = s.postJSON(reservationsURL, commitBody("room-102", "bob", 1))
		s.Equal(http.StatusConflict, rec.Code)

		body := s.decode(rec)
		s.Equal("REJECTED", body["status"])
		s.Equal("RESOURCE_FULL", body["reason"])

		// The rejection row is durable and readable.
		rejectedID := body["reservationId"].(string)
		got := s.do(http.MethodGet, reservationsURL+"/"+rejectedID)
		s.Equal(http.StatusOK, got.Code)
		gotBody := s.decode(got)
		s.Equal("REJECTED", gotBody["status"])
		s.Equal("RESOURCE_FULL", gotBody["rejectionReason"])
	})

	s.Run("unknown resource returns 404", func() {
		rec := s.postJSON(reservationsURL, commitBody("no-such-room", "alice", 1))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Contains(rec.Body.String(), "RESOURCE_NOT_FOUND")
	})

	s.Run("invalid quantity returns the stable code", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-103", "meeting-room", 5))

		rec := s.postJSON(reservationsURL, commitBody("room-103", "alice", 0))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "INVALID_QUANTITY")
	})
}

func (s *reservationSuite) TestCancelFlow() {
	s.Run("cancel releases the seat for the next commit", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-201", "meeting-room", 1))

		first := s.decode(s.postJSON(reservationsURL, commitBody("room-201", "alice", 1)))
		reservationID := first["reservationId"].(string)

		blocked := s.postJSON(reservationsURL, commitBody("room-201", "bob", 1))
		s.Equal(http.StatusConflict, blocked.Code)

		rec := s.postJSON(reservationsURL+"/"+reservationID+"/cancel", nil)
		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.Equal("CANCELLED", body["status"])
		s.EqualValues(1, body["capacityReleased"])

		retry := s.postJSON(reservationsURL, commitBody("room-201", "bob", 1))
		s.Equal(http.StatusCreated, retry.Code)
	})

	s.Run("double cancel conflicts", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-202", "meeting-room", 5))

		created := s.decode(s.postJSON(reservationsURL, commitBody("room-202", "alice", 1)))
		reservationID := created["reservationId"].(string)

		rec := s.postJSON(reservationsURL+"/"+reservationID+"/cancel", nil)
		s.Equal(http.StatusOK, rec.Code)

		rec = s.postJSON(reservationsURL+"/"+reservationID+"/cancel", nil)
		s.Equal(http.StatusConflict, rec.Code)
		s.Contains(rec.Body.String(), "INVALID_STATE")
	})
}

// 同時コミットの嵐: FOR UPDATE の直列化がオーバーブッキングを防ぐことを
// 実データベースで検証する。
func (s *reservationSuite) TestConcurrentCommitStorm() {
	s.Run("capacity is never oversold", func() {
		const capacity = 5
		const attackers = 40
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-301", "meeting-room", capacity))

		var wg sync.WaitGroup
		codes := make([]int, attackers)
		for i := range attackers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := s.postJSON(reservationsURL, commitBody("room-301", fmt.Sprintf("client-%d", i), 1))
				codes[i] = rec.Code
			}(i)
		}
		wg.Wait()

		confirmed := 0
		for _, code := range codes {
			if code == http.StatusCreated {
				confirmed++
			}
		}
		s.Equal(capacity, confirmed, "exactly capacity commits confirmed")

		var sum int
		err := s.DB.QueryRow(s.T().Context(), `
			SELECT COALESCE(SUM(quantity), 0)::int FROM reservations
			WHERE resource_id = 'room-301' AND status = 'CONFIRMED'
		`).Scan(&sum)
		require.NoError(s.T(), err)
		s.Equal(capacity, sum)

		var counter int
		err = s.DB.QueryRow(s.T().Context(),
			`SELECT current_bookings FROM resources WHERE id = 'room-301'`).Scan(&counter)
		require.NoError(s.T(), err)
		s.Equal(capacity, counter, "denormalized counter matches the aggregate")
	})
}

func (s *reservationSuite) TestAvailabilityCaching() {
	s.Run("second read is served from cache with an etag", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-401", "meeting-room", 10))

		first := s.do(http.MethodGet, availabilityURL+"/room-401")
		s.Equal(http.StatusOK, first.Code)
		s.Equal(false, s.decode(first)["isCached"])
		etag := first.Header().Get("ETag")
		s.NotEmpty(etag)

		second := s.do(http.MethodGet, availabilityURL+"/room-401")
		s.Equal(http.StatusOK, second.Code)
		s.Equal(true, s.decode(second)["isCached"])

		// Conditional request revalidates without a body.
		req := httptest.NewRequest(http.MethodGet, availabilityURL+"/room-401", nil)
		req.Header.Set("If-None-Match", etag)
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		s.Equal(http.StatusNotModified, rec.Code)
	})

	s.Run("cache stats endpoint reports traffic", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-402", "meeting-room", 10))

		s.do(http.MethodGet, availabilityURL+"/room-402")
		s.do(http.MethodGet, availabilityURL+"/room-402")

		rec := s.do(http.MethodGet, availabilityURL+"/cache/stats")
		s.Equal(http.StatusOK, rec.Code)
		body := s.decode(rec)
		s.NotZero(body["misses"])
	})

	s.Run("manual invalidation forces a reload", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-403", "meeting-room", 10))

		s.do(http.MethodGet, availabilityURL+"/room-403")
		cached := s.do(http.MethodGet, availabilityURL+"/room-403")
		s.Equal(true, s.decode(cached)["isCached"])

		rec := s.do(http.MethodDelete, availabilityURL+"/cache/room-403")
		s.Equal(http.StatusNoContent, rec.Code)

		fresh := s.do(http.MethodGet, availabilityURL+"/room-403")
		s.Equal(false, s.decode(fresh)["isCached"])
	})
}

func (s *reservationSuite) TestMaintenanceMode() {
	s.Run("active maintenance rejects commits", func() {
		require.NoError(s.T(), dbtest.SeedResource(s.DB, "room-501", "meeting-room", 10))

		req := httptest.NewRequest(http.MethodPut, maintenanceURL, bytes.NewReader([]byte(`{"active": true}`)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)

		blocked := s.postJSON(reservationsURL, commitBody("room-501", "alice", 1))
		s.Equal(http.StatusServiceUnavailable, blocked.Code)
		s.Contains(blocked.Body.String(), "MAINTENANCE_MODE")

		// Reads stay up during maintenance.
		avail := s.do(http.MethodGet, availabilityURL+"/room-501")
		s.Equal(http.StatusOK, avail.Code)
	})
}
