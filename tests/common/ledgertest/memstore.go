// Package ledgertest provides an in-memory UnitOfWork with the same
// conditional-write semantics as the Postgres implementation, so command
// behavior under concurrency can be exercised without a database.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"expo-ledger/internal/domain/activity"
	"expo-ledger/internal/domain/attendee"
	"expo-ledger/internal/domain/checkin"
	"expo-ledger/internal/domain/raffle"
	"expo-ledger/internal/domain/redemption"
	"expo-ledger/internal/infra"
	"expo-ledger/internal/pkg/errs"
	"expo-ledger/internal/usecase/shared"

	"github.com/google/uuid"
)

type pairKey struct {
	a uuid.UUID
	b uuid.UUID
}

type attendeeRow struct {
	displayName string
	points      int32
}

type productRow struct {
	boothID    uuid.UUID
	name       string
	pointsCost int32
	stock      int32
}

type activityRow struct {
	name             string
	pointsReward     int32
	participantCount int32
}

type raffleRow struct {
	eventID          uuid.UUID
	prize            string
	winnersRequested int32
	status           raffle.Status
	createdAt        time.Time
}

type checkInRow struct {
	checkedInAt time.Time
	seq         int64
}

type winnerRow struct {
	position int32
	drawnAt  time.Time
}

type redemptionRow struct {
	attendeeID  uuid.UUID
	lines       []redemption.Line
	totalPoints int32
	redeemedAt  time.Time
}

type state struct {
	attendees      map[uuid.UUID]attendeeRow
	products       map[uuid.UUID]productRow
	activities     map[uuid.UUID]activityRow
	raffles        map[uuid.UUID]raffleRow
	checkIns       map[pairKey]checkInRow
	participations map[pairKey]time.Time
	winners        map[pairKey]winnerRow
	redemptions    map[uuid.UUID]redemptionRow
	checkInSeq     int64
}

func newState() *state {
	return &state{
		attendees:      make(map[uuid.UUID]attendeeRow),
		products:       make(map[uuid.UUID]productRow),
		activities:     make(map[uuid.UUID]activityRow),
		raffles:        make(map[uuid.UUID]raffleRow),
		checkIns:       make(map[pairKey]checkInRow),
		participations: make(map[pairKey]time.Time),
		winners:        make(map[pairKey]winnerRow),
		redemptions:    make(map[uuid.UUID]redemptionRow),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.checkInSeq = s.checkInSeq
	for k, v := range s.attendees {
		c.attendees[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.activities {
		c.activities[k] = v
	}
	for k, v := range s.raffles {
		c.raffles[k] = v
	}
	for k, v := range s.checkIns {
		c.checkIns[k] = v
	}
	for k, v := range s.participations {
		c.participations[k] = v
	}
	for k, v := range s.winners {
		c.winners[k] = v
	}
	for k, v := range s.redemptions {
		row := v
		row.lines = append([]redemption.Line(nil), v.lines...)
		c.redemptions[k] = row
	}
	return c
}

// Store is an in-memory shared.UnitOfWork. Within clones the state, applies
// the function's writes to the clone, and swaps it in on success; an error
// discards the clone, giving the same all-or-nothing behavior as a rolled
// back transaction.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(ctx, &memTx{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

// Seed helpers mutate the store directly, outside any transaction.

func (s *Store) SeedAttendee(id uuid.UUID, name string, points int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.attendees[id] = attendeeRow{displayName: name, points: points}
}

func (s *Store) SeedProduct(id, boothID uuid.UUID, name string, pointsCost, stock int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[id] = productRow{boothID: boothID, name: name, pointsCost: pointsCost, stock: stock}
}

func (s *Store) SeedActivity(id uuid.UUID, name string, pointsReward int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.activities[id] = activityRow{name: name, pointsReward: pointsReward}
}

func (s *Store) SeedCheckIn(eventID, attendeeID uuid.UUID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.checkInSeq++
	s.state.checkIns[pairKey{eventID, attendeeID}] = checkInRow{checkedInAt: at, seq: s.state.checkInSeq}
}

// Inspection helpers read committed state.

func (s *Store) AttendeePoints(id uuid.UUID) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.attendees[id].points
}

func (s *Store) ProductStock(id uuid.UUID) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.products[id].stock
}

func (s *Store) CheckInCount(eventID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.state.checkIns {
		if k.a == eventID {
			n++
		}
	}
	return n
}

func (s *Store) ParticipantCount(activityID uuid.UUID) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.activities[activityID].participantCount
}

func (s *Store) RedemptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.redemptions)
}

func (s *Store) WinnerAttendees(raffleID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uuid.UUID
	for k := range s.state.winners {
		if k.a == raffleID {
			out = append(out, k.b)
		}
	}
	return out
}

func (s *Store) RaffleStatus(raffleID uuid.UUID) raffle.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.raffles[raffleID].status
}

type memTx struct {
	state *state
}

func (t *memTx) Attendees() shared.AttendeeRepository     { return &memAttendees{t.state} }
func (t *memTx) CheckIns() shared.CheckInRepository       { return &memCheckIns{t.state} }
func (t *memTx) Products() shared.ProductRepository       { return &memProducts{t.state} }
func (t *memTx) Activities() shared.ActivityRepository    { return &memActivities{t.state} }
func (t *memTx) Redemptions() shared.RedemptionRepository { return &memRedemptions{t.state} }
func (t *memTx) Raffles() shared.RaffleRepository         { return &memRaffles{t.state} }

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, errs.New(msg), infra.KindNotFound)
}

func conflict(msg string) error {
	return infra.WrapRepoErr(msg, errs.New(msg), infra.KindConflict)
}

type memAttendees struct{ s *state }

func (r *memAttendees) Ensure(_ context.Context, a *attendee.Attendee) error {
	if _, ok := r.s.attendees[a.ID()]; ok {
		return nil
	}
	r.s.attendees[a.ID()] = attendeeRow{displayName: a.DisplayName()}
	return nil
}

func (r *memAttendees) Find(_ context.Context, id uuid.UUID) (*shared.AttendeeSnapshot, error) {
	row, ok := r.s.attendees[id]
	if !ok {
		return nil, notFound("attendee not found")
	}
	return &shared.AttendeeSnapshot{ID: id, DisplayName: row.displayName, Points: row.points}, nil
}

func (r *memAttendees) Debit(_ context.Context, id uuid.UUID, points int32) error {
	row, ok := r.s.attendees[id]
	if !ok || row.points < points {
		return conflict("insufficient points")
	}
	row.points -= points
	r.s.attendees[id] = row
	return nil
}

func (r *memAttendees) Credit(_ context.Context, id uuid.UUID, points int32) error {
	row, ok := r.s.attendees[id]
	if !ok {
		return notFound("attendee not found")
	}
	row.points += points
	r.s.attendees[id] = row
	return nil
}

type memCheckIns struct{ s *state }

func (r *memCheckIns) Create(_ context.Context, rec *checkin.CheckIn) (bool, error) {
	key := pairKey{rec.EventID(), rec.AttendeeID()}
	if _, ok := r.s.checkIns[key]; ok {
		return false, nil
	}
	r.s.checkInSeq++
	r.s.checkIns[key] = checkInRow{checkedInAt: rec.CheckedInAt(), seq: r.s.checkInSeq}
	return true, nil
}

func (r *memCheckIns) FindByPair(_ context.Context, eventID, attendeeID uuid.UUID) (*shared.CheckInSnapshot, error) {
	row, ok := r.s.checkIns[pairKey{eventID, attendeeID}]
	if !ok {
		return nil, notFound("check-in not found")
	}
	return &shared.CheckInSnapshot{EventID: eventID, AttendeeID: attendeeID, CheckedInAt: row.checkedInAt}, nil
}

type memProducts struct{ s *state }

func (r *memProducts) Find(_ context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	row, ok := r.s.products[id]
	if !ok {
		return nil, notFound("product not found")
	}
	return &shared.ProductSnapshot{
		ID:         id,
		BoothID:    row.boothID,
		Name:       row.name,
		PointsCost: row.pointsCost,
		Stock:      row.stock,
	}, nil
}

func (r *memProducts) DecrementStock(_ context.Context, id uuid.UUID, quantity int32) error {
	row, ok := r.s.products[id]
	if !ok || row.stock < quantity {
		return conflict("insufficient stock")
	}
	row.stock -= quantity
	r.s.products[id] = row
	return nil
}

type memActivities struct{ s *state }

func (r *memActivities) Find(_ context.Context, id uuid.UUID) (*shared.ActivitySnapshot, error) {
	row, ok := r.s.activities[id]
	if !ok {
		return nil, notFound("activity not found")
	}
	return &shared.ActivitySnapshot{
		ID:               id,
		Name:             row.name,
		PointsReward:     row.pointsReward,
		ParticipantCount: row.participantCount,
	}, nil
}

func (r *memActivities) CreateParticipation(_ context.Context, p *activity.Participation) (bool, error) {
	key := pairKey{p.ActivityID(), p.AttendeeID()}
	if _, ok := r.s.participations[key]; ok {
		return false, nil
	}
	r.s.participations[key] = p.CompletedAt()
	return true, nil
}

func (r *memActivities) FindParticipation(_ context.Context, activityID, attendeeID uuid.UUID) (*shared.ParticipationSnapshot, error) {
	completedAt, ok := r.s.participations[pairKey{activityID, attendeeID}]
	if !ok {
		return nil, notFound("participation not found")
	}
	return &shared.ParticipationSnapshot{
		ActivityID:  activityID,
		AttendeeID:  attendeeID,
		CompletedAt: completedAt,
	}, nil
}

func (r *memActivities) IncrementParticipants(_ context.Context, id uuid.UUID) error {
	row, ok := r.s.activities[id]
	if !ok {
		return notFound("activity not found")
	}
	row.participantCount++
	r.s.activities[id] = row
	return nil
}

type memRedemptions struct{ s *state }

func (r *memRedemptions) Create(_ context.Context, txn *redemption.Transaction) error {
	r.s.redemptions[txn.ID()] = redemptionRow{
		attendeeID:  txn.AttendeeID(),
		lines:       txn.Lines(),
		totalPoints: txn.TotalPoints(),
		redeemedAt:  txn.RedeemedAt(),
	}
	return nil
}

type memRaffles struct{ s *state }

func (r *memRaffles) Create(_ context.Context, rf *raffle.Raffle) error {
	r.s.raffles[rf.ID()] = raffleRow{
		eventID:          rf.EventID(),
		prize:            rf.Prize(),
		winnersRequested: rf.WinnersRequested(),
		status:           rf.Status(),
		createdAt:        rf.CreatedAt(),
	}
	return nil
}

func (r *memRaffles) Find(_ context.Context, id uuid.UUID) (*shared.RaffleSnapshot, error) {
	row, ok := r.s.raffles[id]
	if !ok {
		return nil, notFound("raffle not found")
	}
	var count int32
	for k := range r.s.winners {
		if k.a == id {
			count++
		}
	}
	return &shared.RaffleSnapshot{
		ID:               id,
		EventID:          row.eventID,
		Prize:            row.prize,
		WinnersRequested: row.winnersRequested,
		WinnerCount:      count,
		Status:           row.status,
	}, nil
}

func (r *memRaffles) UpdateStatus(_ context.Context, id uuid.UUID, from, to raffle.Status) (bool, error) {
	row, ok := r.s.raffles[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = to
	r.s.raffles[id] = row
	return true, nil
}

func (r *memRaffles) AppendWinner(_ context.Context, w *raffle.Winner) error {
	key := pairKey{w.RaffleID, w.AttendeeID}
	if _, ok := r.s.winners[key]; ok {
		return infra.WrapRepoErr("winner already drawn", errs.New("duplicate winner"), infra.KindDuplicateKey)
	}
	r.s.winners[key] = winnerRow{position: w.Position, drawnAt: w.DrawnAt}
	return nil
}

func (r *memRaffles) EligiblePool(_ context.Context, raffleID, eventID uuid.UUID) ([]uuid.UUID, error) {
	type candidate struct {
		id  uuid.UUID
		seq int64
	}
	var pool []candidate
	for k, row := range r.s.checkIns {
		if k.a != eventID {
			continue
		}
		if _, won := r.s.winners[pairKey{raffleID, k.b}]; won {
			continue
		}
		pool = append(pool, candidate{id: k.b, seq: row.seq})
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].seq < pool[j].seq })

	out := make([]uuid.UUID, len(pool))
	for i, c := range pool {
		out[i] = c.id
	}
	return out, nil
}
