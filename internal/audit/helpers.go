package audit

import (
	"fmt"

	"github.com/darmiel/mcauth/internal/buildinfo"
)

// CreateUserAgent is the User-Agent sent to authentication servers.
func CreateUserAgent(requestID, provider string) string {
	return fmt.Sprintf("mcauth/%s (request_id=%s; provider=%s)",
		buildinfo.Version, requestID, provider)
}
