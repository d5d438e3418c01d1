//go:build e2e

package ledger

import (
	"context"
	"net/http"
	"testing"
	"time"

	reqdto "expo-ledger/internal/handler/dto/request"
	resdto "expo-ledger/internal/handler/dto/response"
	"expo-ledger/internal/usecase/identity"
	"expo-ledger/tests/common/httptest"
	"expo-ledger/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type LedgerFlowTestSuite struct {
	e2e.SharedSuite

	eventID    uuid.UUID
	boothID    uuid.UUID
	productID  uuid.UUID
	activityID uuid.UUID
	attendee   identity.Identity
}

func TestLedgerFlowSuite(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}

func (s *LedgerFlowTestSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())

	s.eventID = uuid.New()
	s.boothID = uuid.New()
	s.productID = uuid.New()
	s.activityID = uuid.New()
	s.attendee = identity.Identity{
		AttendeeID:  uuid.New(),
		DisplayName: "Grace Hopper",
		EventID:     s.eventID,
	}

	ctx := context.Background()
	_, err := s.DB.Exec(ctx,
		`INSERT INTO events (id, name) VALUES ($1, 'DevConf 2026')`, s.eventID)
	s.Require().NoError(err)
	_, err = s.DB.Exec(ctx,
		`INSERT INTO booths (id, event_id, name) VALUES ($1, $2, 'Swag Booth')`,
		s.boothID, s.eventID)
	s.Require().NoError(err)
	_, err = s.DB.Exec(ctx,
		`INSERT INTO products (id, booth_id, name, points_cost, stock)
		 VALUES ($1, $2, 'Enamel Mug', 30, 2)`,
		s.productID, s.boothID)
	s.Require().NoError(err)
	_, err = s.DB.Exec(ctx,
		`INSERT INTO activities (id, name, points_reward) VALUES ($1, 'Booth Quiz', 50)`,
		s.activityID)
	s.Require().NoError(err)
}

func (s *LedgerFlowTestSuite) badge() string {
	payload, err := identity.SignBadge(s.Config.Badge, s.attendee, time.Now())
	s.Require().NoError(err)
	return payload
}

// One attendee walks the whole event: check in, earn points at an
// activity, spend them at a booth, and win the closing raffle.
func (s *LedgerFlowTestSuite) TestFullEventFlow() {
	var raffleID uuid.UUID

	s.Run("first badge scan checks the attendee in", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/scan", reqdto.ScanRequest{
			Payload: s.badge(),
			Mode:    "checkin",
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp resdto.ScanResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Require().NotNil(resp.CheckIn)
		s.True(resp.CheckIn.Created)
		s.Equal(s.attendee.AttendeeID, resp.Identity.AttendeeID)
	})

	s.Run("repeat check-in is acknowledged without a second record", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/checkins", reqdto.CheckInRequest{
			Payload: s.badge(),
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp resdto.CheckInResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.False(resp.Created)

		count := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/events/"+s.eventID.String()+"/checkins/count", nil)
		s.Require().Equal(http.StatusOK, count.Code)

		var countResp resdto.CheckInCountResponse
		_ = httptest.DecodeResponseBody(s.T(), count.Body, &countResp)
		s.Equal(int64(1), countResp.Count)
	})

	s.Run("activity completion awards points exactly once", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/activities/"+s.activityID.String()+"/join", reqdto.JoinActivityRequest{
				Payload: s.badge(),
			})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp resdto.JoinActivityResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.True(resp.Awarded)
		s.Equal(int32(50), resp.PointsAwarded)

		again := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/activities/"+s.activityID.String()+"/join", reqdto.JoinActivityRequest{
				Payload: s.badge(),
			})
		s.Require().Equal(http.StatusOK, again.Code)

		var repeat resdto.JoinActivityResponse
		_ = httptest.DecodeResponseBody(s.T(), again.Body, &repeat)
		s.False(repeat.Awarded)

		attendee := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/attendees/"+s.attendee.AttendeeID.String(), nil)
		s.Require().Equal(http.StatusOK, attendee.Code)

		var attendeeResp resdto.AttendeeResponse
		_ = httptest.DecodeResponseBody(s.T(), attendee.Body, &attendeeResp)
		s.Equal(int32(50), attendeeResp.Points)
	})

	s.Run("redemption debits points and stock atomically", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/redemptions", reqdto.RedeemRequest{
			Payload: s.badge(),
			Items:   []reqdto.CartItemRequest{{ProductID: s.productID, Quantity: 1}},
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp resdto.RedemptionResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Require().True(resp.Succeeded)
		s.Require().NotNil(resp.RemainingPoints)
		s.Equal(int32(20), *resp.RemainingPoints)
		s.Equal(int32(1), resp.RemainingStock[s.productID])

		history := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/attendees/"+s.attendee.AttendeeID.String()+"/redemptions", nil)
		s.Require().Equal(http.StatusOK, history.Code)

		var txns []resdto.RedemptionHistoryResponse
		_ = httptest.DecodeResponseBody(s.T(), history.Body, &txns)
		s.Require().Len(txns, 1)
		s.Equal(int32(30), txns[0].TotalPoints)

		products := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/booths/"+s.boothID.String()+"/products", nil)
		s.Require().Equal(http.StatusOK, products.Code)

		var productResp []resdto.ProductResponse
		_ = httptest.DecodeResponseBody(s.T(), products.Body, &productResp)
		s.Require().Len(productResp, 1)
		s.Equal(int32(1), productResp[0].Stock)
	})

	s.Run("overdraw is rejected as a whole and nothing moves", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/redemptions", reqdto.RedeemRequest{
			Payload: s.badge(),
			Items:   []reqdto.CartItemRequest{{ProductID: s.productID, Quantity: 1}},
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp resdto.RedemptionResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.False(resp.Succeeded)
		s.Require().NotNil(resp.Failed)
		s.Equal("insufficient_points", resp.Failed.Reason)

		attendee := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/attendees/"+s.attendee.AttendeeID.String(), nil)
		s.Require().Equal(http.StatusOK, attendee.Code)

		var attendeeResp resdto.AttendeeResponse
		_ = httptest.DecodeResponseBody(s.T(), attendee.Body, &attendeeResp)
		s.Equal(int32(20), attendeeResp.Points)
	})

	s.Run("raffle draw picks the checked-in attendee and finishes", func() {
		created := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/raffles", reqdto.CreateRaffleRequest{
			EventID:          s.eventID,
			Prize:            "Conference Pass 2027",
			WinnersRequested: 1,
			StartActive:      true,
		})
		s.Require().Equal(http.StatusCreated, created.Code)

		var createResp resdto.CreateRaffleResponse
		_ = httptest.DecodeResponseBody(s.T(), created.Body, &createResp)
		s.Equal("active", createResp.Status)
		raffleID = createResp.RaffleID

		drawn := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/raffles/"+raffleID.String()+"/draw", nil)
		s.Require().Equal(http.StatusOK, drawn.Code)

		var drawResp resdto.DrawResponse
		_ = httptest.DecodeResponseBody(s.T(), drawn.Body, &drawResp)
		s.Require().NotNil(drawResp.Winner)
		s.Equal(s.attendee.AttendeeID, drawResp.Winner.AttendeeID)
		s.Equal(int32(1), drawResp.Winner.Position)
		s.Equal("finished", drawResp.Status)
	})

	s.Run("drawing a finished raffle is an informational no-op", func() {
		drawn := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/raffles/"+raffleID.String()+"/draw", nil)
		s.Require().Equal(http.StatusOK, drawn.Code)

		var drawResp resdto.DrawResponse
		_ = httptest.DecodeResponseBody(s.T(), drawn.Body, &drawResp)
		s.Nil(drawResp.Winner)
		s.Equal("already finished", drawResp.Message)

		winners := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/raffles/"+raffleID.String()+"/winners", nil)
		s.Require().Equal(http.StatusOK, winners.Code)

		var winnerResp []resdto.WinnerResponse
		_ = httptest.DecodeResponseBody(s.T(), winners.Body, &winnerResp)
		s.Require().Len(winnerResp, 1)
		s.Equal("Grace Hopper", winnerResp[0].DisplayName)

		detail := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			"/api/raffles/"+raffleID.String(), nil)
		s.Require().Equal(http.StatusOK, detail.Code)

		var raffleResp resdto.RaffleResponse
		_ = httptest.DecodeResponseBody(s.T(), detail.Body, &raffleResp)
		s.Equal("finished", raffleResp.Status)
		s.Equal(int32(1), raffleResp.WinnerCount)
	})
}
