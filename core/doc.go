// Package core contains the LMS client contracts: caller-owned OAuth2 tokens,
// provider configuration, call request/result values, the error taxonomy and
// the body codec. Provider and transport packages depend on core; core must
// not depend on them.
package core
