package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/campustrail/marketplace/internal/availability"
	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/handler"
	"github.com/campustrail/marketplace/internal/match"
	"github.com/campustrail/marketplace/internal/service"
)

// mockGearServicer is a test double for handler.GearServicer.
// Set only the method fields your test needs.
type mockGearServicer struct {
	create      func(ctx context.Context, gear domain.GearItem) (domain.GearItem, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.GearItem, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID) ([]domain.GearItem, error)
	publish     func(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error)
	archive     func(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error)
}

func (m *mockGearServicer) Create(ctx context.Context, gear domain.GearItem) (domain.GearItem, error) {
	return m.create(ctx, gear)
}
func (m *mockGearServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.GearItem, error) {
	return m.getByID(ctx, id)
}
func (m *mockGearServicer) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.GearItem, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockGearServicer) Publish(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error) {
	return m.publish(ctx, actorID, gearItemID)
}
func (m *mockGearServicer) Archive(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error) {
	return m.archive(ctx, actorID, gearItemID)
}

var _ handler.GearServicer = (*mockGearServicer)(nil)

// mockRentalServicer is a test double for handler.RentalServicer.
type mockRentalServicer struct {
	checkAvailability        func(ctx context.Context, gearItemID uuid.UUID, window *domain.TimeWindow, mode domain.RentalMode) (availability.Result, error)
	listGearWithAvailability func(ctx context.Context, window *domain.TimeWindow, mode domain.RentalMode) ([]service.GearAvailability, error)
	createRental             func(ctx context.Context, gearItemID, renterID uuid.UUID, window domain.TimeWindow, mode domain.RentalMode) (domain.Rental, error)
	action                   func(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	listForGear              func(ctx context.Context, actorID, gearItemID uuid.UUID) ([]domain.Rental, error)
	listForRenter            func(ctx context.Context, renterID uuid.UUID) ([]domain.Rental, error)
}

func (m *mockRentalServicer) CheckAvailability(ctx context.Context, gearItemID uuid.UUID, window *domain.TimeWindow, mode domain.RentalMode) (availability.Result, error) {
	return m.checkAvailability(ctx, gearItemID, window, mode)
}
func (m *mockRentalServicer) ListGearWithAvailability(ctx context.Context, window *domain.TimeWindow, mode domain.RentalMode) ([]service.GearAvailability, error) {
	return m.listGearWithAvailability(ctx, window, mode)
}
func (m *mockRentalServicer) CreateRental(ctx context.Context, gearItemID, renterID uuid.UUID, window domain.TimeWindow, mode domain.RentalMode) (domain.Rental, error) {
	return m.createRental(ctx, gearItemID, renterID, window, mode)
}

// All seven state-transition endpoints share one mock field; tests exercising
// them care about the routing and the response mapping, not which transition.
func (m *mockRentalServicer) Approve(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) Pickup(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) Return(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) Cancel(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) HoldDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) CaptureDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) ReleaseDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error) {
	return m.action(ctx, actorID, rentalID)
}
func (m *mockRentalServicer) ListForGear(ctx context.Context, actorID, gearItemID uuid.UUID) ([]domain.Rental, error) {
	return m.listForGear(ctx, actorID, gearItemID)
}
func (m *mockRentalServicer) ListForRenter(ctx context.Context, renterID uuid.UUID) ([]domain.Rental, error) {
	return m.listForRenter(ctx, renterID)
}

var _ handler.RentalServicer = (*mockRentalServicer)(nil)

// mockTravelServicer is a test double for handler.TravelServicer.
type mockTravelServicer struct {
	createItinerary        func(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	getItinerary           func(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	listItineraries        func(ctx context.Context) ([]domain.Itinerary, error)
	requestJoin            func(ctx context.Context, actorID, itineraryID uuid.UUID, message string) (domain.ItineraryJoin, error)
	joinAction             func(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error)
	addItineraryInterests  func(ctx context.Context, actorID, itineraryID uuid.UUID, style string, interests []string) (domain.Itinerary, error)
	createCompanionRequest func(ctx context.Context, cr domain.CompanionRequest) (domain.CompanionRequest, error)
	getCompanionRequest    func(ctx context.Context, id uuid.UUID) (domain.CompanionRequest, error)
	listCompanionRequests  func(ctx context.Context) ([]domain.CompanionRequest, error)
	addCompanionInterests  func(ctx context.Context, actorID, requestID uuid.UUID, style string, interests []string) (domain.CompanionRequest, error)
}

func (m *mockTravelServicer) CreateItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	return m.createItinerary(ctx, it)
}
func (m *mockTravelServicer) GetItinerary(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	return m.getItinerary(ctx, id)
}
func (m *mockTravelServicer) ListItineraries(ctx context.Context) ([]domain.Itinerary, error) {
	return m.listItineraries(ctx)
}
func (m *mockTravelServicer) CreateCompanionRequest(ctx context.Context, cr domain.CompanionRequest) (domain.CompanionRequest, error) {
	return m.createCompanionRequest(ctx, cr)
}
func (m *mockTravelServicer) GetCompanionRequest(ctx context.Context, id uuid.UUID) (domain.CompanionRequest, error) {
	return m.getCompanionRequest(ctx, id)
}
func (m *mockTravelServicer) ListCompanionRequests(ctx context.Context) ([]domain.CompanionRequest, error) {
	return m.listCompanionRequests(ctx)
}
func (m *mockTravelServicer) RequestJoin(ctx context.Context, actorID, itineraryID uuid.UUID, message string) (domain.ItineraryJoin, error) {
	return m.requestJoin(ctx, actorID, itineraryID, message)
}
func (m *mockTravelServicer) ApproveJoin(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error) {
	return m.joinAction(ctx, actorID, joinID)
}
func (m *mockTravelServicer) RejectJoin(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error) {
	return m.joinAction(ctx, actorID, joinID)
}
func (m *mockTravelServicer) AddItineraryInterests(ctx context.Context, actorID, itineraryID uuid.UUID, style string, interests []string) (domain.Itinerary, error) {
	return m.addItineraryInterests(ctx, actorID, itineraryID, style, interests)
}
func (m *mockTravelServicer) AddCompanionRequestInterests(ctx context.Context, actorID, requestID uuid.UUID, style string, interests []string) (domain.CompanionRequest, error) {
	return m.addCompanionInterests(ctx, actorID, requestID, style, interests)
}

var _ handler.TravelServicer = (*mockTravelServicer)(nil)

// mockMatchServicer is a test double for handler.MatchServicer.
type mockMatchServicer struct {
	forCompanionRequest func(ctx context.Context, requestID uuid.UUID, p domain.MatchParams) (match.Result, error)
	forItinerary        func(ctx context.Context, itineraryID uuid.UUID, p domain.MatchParams) (match.Result, error)
}

func (m *mockMatchServicer) ForCompanionRequest(ctx context.Context, requestID uuid.UUID, p domain.MatchParams) (match.Result, error) {
	return m.forCompanionRequest(ctx, requestID, p)
}
func (m *mockMatchServicer) ForItinerary(ctx context.Context, itineraryID uuid.UUID, p domain.MatchParams) (match.Result, error) {
	return m.forItinerary(ctx, itineraryID, p)
}

var _ handler.MatchServicer = (*mockMatchServicer)(nil)

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context, ownerID uuid.UUID) ([]domain.RentalExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.RentalExportRow, error) {
	return m.export(ctx, ownerID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// serverDeps bundles the mocks behind one Server; leave unused fields nil.
type serverDeps struct {
	gear    handler.GearServicer
	rentals handler.RentalServicer
	travel  handler.TravelServicer
	matches handler.MatchServicer
	export  handler.ExportServicer
}

// newTestHandler wires a Server with the given mocks onto its real router,
// mirroring how main.go wires it in production.
func newTestHandler(deps serverDeps) http.Handler {
	return handler.NewServer(deps.gear, deps.rentals, deps.travel, deps.matches, deps.export).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// asUser stamps the verified-identity header the way the upstream auth proxy
// does in production.
func asUser(req *http.Request, id uuid.UUID) *http.Request {
	req.Header.Set("X-User-ID", id.String())
	return req
}

func decodeJSON[T any](t *testing.T, body *bytes.Buffer) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}
