//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewConfirmed(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildConfirmed()
		require.NoError(t, err)
		require.NotNil(t, rsv)

		assert.NotEqual(t, uuid.Nil, rsv.ID().UUID())
		assert.Equal(t, "room-101", rsv.ResourceID().String())
		assert.Equal(t, "client-001", rsv.ClientID().String())
		assert.Equal(t, 1, rsv.Quantity().Int())
		assert.Equal(t, reservation.StatusConfirmed, rsv.Status())
		assert.Nil(t, rsv.RejectionReason())
		assert.True(t, rsv.IsConfirmed())
		assert.Equal(t, rsv.ServerTimestamp(), rsv.CreatedAt())
	})

	t.Run("rejects zero timestamp", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().WithServerTimestamp(time.Time{}).BuildConfirmed()
		require.ErrorIs(t, err, reservation.ErrZeroTimestamp)
	})

	t.Run("generated ids are unique", func(t *testing.T) {
		a, err := builder.NewReservationBuilder().BuildConfirmed()
		require.NoError(t, err)
		b, err := builder.NewReservationBuilder().BuildConfirmed()
		require.NoError(t, err)
		assert.NotEqual(t, a.ID(), b.ID())
	})
}

func TestNewRejected(t *testing.T) {
	t.Run("records the reason", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildRejected(reservation.ReasonResourceFull)
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusRejected, rsv.Status())
		require.NotNil(t, rsv.RejectionReason())
		assert.Equal(t, reservation.ReasonResourceFull, *rsv.RejectionReason())
		assert.False(t, rsv.IsConfirmed())
	})

	t.Run("rejects unknown reason", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().BuildRejected(reservation.RejectionReason("NO_REASON"))
		require.ErrorIs(t, err, reservation.ErrInvalidReasonTag)
	})
}

func TestCancel(t *testing.T) {
	t.Run("confirmed cancels", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildConfirmed()
		require.NoError(t, err)

		cancelled, err := rsv.Cancel()
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusCancelled, cancelled.Status())
		// Original untouched
		assert.Equal(t, reservation.StatusConfirmed, rsv.Status())
	})

	t.Run("double cancel fails", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildConfirmed()
		require.NoError(t, err)
		cancelled, err := rsv.Cancel()
		require.NoError(t, err)

		_, err = cancelled.Cancel()
		require.ErrorIs(t, err, reservation.ErrNotConfirmed)
	})

	t.Run("rejected cannot cancel", func(t *testing.T) {
		rsv, err := builder.NewReservationBuilder().BuildRejected(reservation.ReasonResourceClosed)
		require.NoError(t, err)

		_, err = rsv.Cancel()
		require.ErrorIs(t, err, reservation.ErrNotConfirmed)
	})
}

func TestReconstructReservation(t *testing.T) {
	rsv, err := builder.NewReservationBuilder().BuildConfirmed()
	require.NoError(t, err)
	reason := reservation.ReasonResourceFull

	t.Run("rejected requires a reason", func(t *testing.T) {
		_, err := reservation.ReconstructReservation(
			rsv.ID(), rsv.ResourceID(), rsv.ClientID(), rsv.Quantity(),
			reservation.StatusRejected, nil, testNow, testNow,
		)
		require.ErrorIs(t, err, reservation.ErrReasonRequired)
	})

	t.Run("confirmed must not carry a reason", func(t *testing.T) {
		_, err := reservation.ReconstructReservation(
			rsv.ID(), rsv.ResourceID(), rsv.ClientID(), rsv.Quantity(),
			reservation.StatusConfirmed, &reason, testNow, testNow,
		)
		require.ErrorIs(t, err, reservation.ErrReasonNotAllowed)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := reservation.ReconstructReservation(
			rsv.ID(), rsv.ResourceID(), rsv.ClientID(), rsv.Quantity(),
			reservation.Status("PENDING"), nil, testNow, testNow,
		)
		require.ErrorIs(t, err, reservation.ErrInvalidStatusTag)
	})
}

func TestClientID(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		want  string
		errIs error
	}{
		{name: "plain", raw: "client-001", want: "client-001"},
		{name: "email style", raw: "alice@example.com", want: "alice@example.com"},
		{name: "dots and underscores", raw: "svc_a.b-c", want: "svc_a.b-c"},
		{name: "trims whitespace", raw: "  client-001  ", want: "client-001"},
		{name: "empty", raw: "", errIs: reservation.ErrEmptyClientID},
		{name: "whitespace only", raw: "   ", errIs: reservation.ErrEmptyClientID},
		{name: "forbidden characters", raw: "client 001", errIs: reservation.ErrClientIDCharset},
		{name: "sql-ish input", raw: "x'; DROP TABLE--", errIs: reservation.ErrClientIDCharset},
		{name: "non-ascii", raw: "クライアント", errIs: reservation.ErrClientIDCharset},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := reservation.NewClientID(tc.raw)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id.String())
		})
	}

	t.Run("over max length", func(t *testing.T) {
		long := make([]byte, reservation.MaxClientIDLength+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := reservation.NewClientID(string(long))
		require.ErrorIs(t, err, reservation.ErrClientIDTooLong)
	})
}

func TestQuantity(t *testing.T) {
	cases := []struct {
		name  string
		raw   int
		errIs error
	}{
		{name: "one", raw: 1},
		{name: "large", raw: 100000},
		{name: "zero", raw: 0, errIs: reservation.ErrInvalidQuantity},
		{name: "negative", raw: -5, errIs: reservation.ErrInvalidQuantity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := reservation.NewQuantity(tc.raw)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.raw, q.Int())
		})
	}
}

func TestParseID(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := reservation.NewID()
		parsed, err := reservation.ParseID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := reservation.ParseID("not-a-uuid")
		require.ErrorIs(t, err, reservation.ErrInvalidReservationID)
	})
}
