// Package ports declares the repositories, collaborators and services of the
// election core. Adapters implement the repository and collaborator ports.
package ports

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vncsmyrnk/election/internal/core/ports AdminRepository,CitizenDirectory,IdentityVerifier,ResultsCache,TokenVerifier
