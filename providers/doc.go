// Package providers contains the OAuth2 provider client, the token-aware call
// layer shared by all LMS adapters, and the LMS adapter base the endpoint
// catalogs under providers/ build on.
package providers
