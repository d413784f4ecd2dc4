package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Handlers struct {
	Auth        *AuthHandler
	Session     *SessionHandler
	Elections   *ElectionHandler
	Registry    *RegistryHandler
	Candidacies *CandidacyHandler
	Parties     *PartyHandler
	Citizens    *CitizenHandler
	Votes       *VoteHandler
	Results     *ResultsHandler
}

// NewHandler mounts every route. gatherer may be nil, in which case /metrics is not served.
func NewHandler(auth ports.AuthService, h Handlers, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/google/callback", h.Auth.GoogleCallback)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/voter/authenticate", h.Auth.AuthenticateVoter)
		r.Get("/results/{id}", h.Results.PublishedResults)

		r.With(RequireRole(auth, domain.RoleAdmin, domain.RoleVoter)).Get("/me", h.Session.GetMe)
		r.With(RequireRole(auth, domain.RoleAdmin)).Get("/districts", h.Registry.ListDistricts)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(auth, domain.RoleAdmin))

			r.Route("/elections", func(r chi.Router) {
				r.Post("/", h.Elections.CreateElection)
				r.Get("/", h.Elections.ListElections)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Elections.GetElection)
					r.Put("/", h.Elections.UpdateElection)
					r.Delete("/", h.Elections.DeleteElection)
					r.Post("/schedule", h.Elections.ScheduleElection)
					r.Post("/start", h.Elections.StartElection)
					r.Post("/stop", h.Elections.StopElection)
					r.Get("/results", h.Results.ComputeResults)
					r.Get("/districts/unassigned", h.Registry.UnassignedDistricts)

					r.Route("/constituencies", func(r chi.Router) {
						r.Get("/", h.Registry.ListConstituencies)
						r.Post("/", h.Registry.AddConstituency)

						r.Route("/{cid}", func(r chi.Router) {
							r.Put("/", h.Registry.RenameConstituency)
							r.Delete("/", h.Registry.RemoveConstituency)
							r.Post("/districts", h.Registry.AssignDistricts)
							r.Delete("/districts", h.Registry.UnassignDistricts)
							r.Get("/candidacies", h.Candidacies.ListCandidates)
							r.Post("/candidacies", h.Candidacies.AddCandidacy)
							r.Delete("/candidacies/{pid}", h.Candidacies.RemoveCandidacy)
							r.Get("/available-parties", h.Candidacies.AvailableParties)
						})
					})
				})
			})

			r.Route("/parties", func(r chi.Router) {
				r.Post("/", h.Parties.CreateParty)
				r.Get("/", h.Parties.ListParties)
				r.Get("/{id}", h.Parties.GetParty)
				r.Put("/{id}", h.Parties.UpdateParty)
				r.Post("/{id}/members", h.Parties.AddMember)
			})

			r.Route("/citizens", func(r chi.Router) {
				r.Post("/", h.Citizens.RegisterCitizen)
				r.Get("/", h.Citizens.ListCitizens)
				r.Get("/unaffiliated", h.Citizens.ListUnaffiliated)
				r.Get("/{id}", h.Citizens.GetCitizen)
			})
		})

		r.Route("/voting", func(r chi.Router) {
			r.Use(RequireRole(auth, domain.RoleVoter))

			r.Get("/elections", h.Votes.OpenElections)
			r.Get("/elections/{id}/ballot", h.Votes.Ballot)
			r.Post("/elections/{id}/votes", h.Votes.CastVote)
		})
	})

	return r
}
