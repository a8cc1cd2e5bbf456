// Package handler implements the HTTP handlers for the marketplace API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (gear.go, rental.go, match.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campustrail/marketplace/internal/availability"
	"github.com/campustrail/marketplace/internal/domain"
	"github.com/campustrail/marketplace/internal/match"
	"github.com/campustrail/marketplace/internal/service"
)

// GearServicer defines the business operations the gear handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type GearServicer interface {
	Create(ctx context.Context, gear domain.GearItem) (domain.GearItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.GearItem, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.GearItem, error)
	Publish(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error)
	Archive(ctx context.Context, actorID, gearItemID uuid.UUID) (domain.GearItem, error)
}

// RentalServicer defines the business operations the rental handlers depend on.
type RentalServicer interface {
	CheckAvailability(ctx context.Context, gearItemID uuid.UUID, window *domain.TimeWindow, mode domain.RentalMode) (availability.Result, error)
	ListGearWithAvailability(ctx context.Context, window *domain.TimeWindow, mode domain.RentalMode) ([]service.GearAvailability, error)
	CreateRental(ctx context.Context, gearItemID, renterID uuid.UUID, window domain.TimeWindow, mode domain.RentalMode) (domain.Rental, error)
	Approve(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	Pickup(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	Return(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	Cancel(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	HoldDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	CaptureDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	ReleaseDeposit(ctx context.Context, actorID, rentalID uuid.UUID) (domain.Rental, error)
	ListForGear(ctx context.Context, actorID, gearItemID uuid.UUID) ([]domain.Rental, error)
	ListForRenter(ctx context.Context, renterID uuid.UUID) ([]domain.Rental, error)
}

// TravelServicer defines the business operations the itinerary and
// companion-request handlers depend on.
type TravelServicer interface {
	CreateItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	GetItinerary(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	ListItineraries(ctx context.Context) ([]domain.Itinerary, error)
	RequestJoin(ctx context.Context, actorID, itineraryID uuid.UUID, message string) (domain.ItineraryJoin, error)
	ApproveJoin(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error)
	RejectJoin(ctx context.Context, actorID, joinID uuid.UUID) (domain.ItineraryJoin, error)
	AddItineraryInterests(ctx context.Context, actorID, itineraryID uuid.UUID, style string, interests []string) (domain.Itinerary, error)
	CreateCompanionRequest(ctx context.Context, cr domain.CompanionRequest) (domain.CompanionRequest, error)
	GetCompanionRequest(ctx context.Context, id uuid.UUID) (domain.CompanionRequest, error)
	ListCompanionRequests(ctx context.Context) ([]domain.CompanionRequest, error)
	AddCompanionRequestInterests(ctx context.Context, actorID, requestID uuid.UUID, style string, interests []string) (domain.CompanionRequest, error)
}

// MatchServicer defines the business operations the match handlers depend on.
type MatchServicer interface {
	ForCompanionRequest(ctx context.Context, requestID uuid.UUID, p domain.MatchParams) (match.Result, error)
	ForItinerary(ctx context.Context, itineraryID uuid.UUID, p domain.MatchParams) (match.Result, error)
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, ownerID uuid.UUID) ([]domain.RentalExportRow, error)
}

// Server holds the handler dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	gear    GearServicer
	rentals RentalServicer
	travel  TravelServicer
	matches MatchServicer
	export  ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(gear GearServicer, rentals RentalServicer, travel TravelServicer, matches MatchServicer, export ExportServicer) *Server {
	return &Server{gear: gear, rentals: rentals, travel: travel, matches: matches, export: export}
}

// Routes registers every endpoint on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/gear", func(r chi.Router) {
		r.Get("/", s.ListGear)
		r.Post("/", s.CreateGear)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetGear)
			r.Post("/publish", s.PublishGear)
			r.Post("/archive", s.ArchiveGear)
			r.Get("/availability", s.GetAvailability)
			r.Post("/rent", s.CreateRental)
			r.Get("/rentals", s.ListGearRentals)
		})
	})

	r.Route("/rentals/{id}", func(r chi.Router) {
		r.Post("/approve", s.ApproveRental)
		r.Post("/pickup", s.PickupRental)
		r.Post("/return", s.ReturnRental)
		r.Post("/cancel", s.CancelRental)
		r.Post("/hold-deposit", s.HoldDeposit)
		r.Post("/capture-deposit", s.CaptureDeposit)
		r.Post("/release-deposit", s.ReleaseDeposit)
	})

	r.Route("/my", func(r chi.Router) {
		r.Get("/gear", s.ListMyGear)
		r.Get("/rentals", s.ListMyRentals)
		r.Get("/export", s.GetExport)
	})

	r.Route("/itineraries", func(r chi.Router) {
		r.Get("/", s.ListItineraries)
		r.Post("/", s.CreateItinerary)
		r.Get("/{id}", s.GetItinerary)
		r.Get("/{id}/matches", s.ItineraryMatches)
		r.Post("/{id}/join", s.RequestJoin)
		r.Post("/{id}/interests", s.AddItineraryInterests)
	})

	r.Route("/itinerary-joins/{id}", func(r chi.Router) {
		r.Post("/approve", s.ApproveJoin)
		r.Post("/reject", s.RejectJoin)
	})

	r.Route("/companion-requests", func(r chi.Router) {
		r.Get("/", s.ListCompanionRequests)
		r.Post("/", s.CreateCompanionRequest)
		r.Get("/{id}", s.GetCompanionRequest)
		r.Get("/{id}/matches", s.CompanionRequestMatches)
		r.Post("/{id}/interests", s.AddCompanionRequestInterests)
	})

	return r
}
