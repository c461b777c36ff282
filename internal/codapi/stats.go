package codapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Platform is a provider platform identifier.
type Platform string

// Platforms understood by the stats service.
const (
	PlatformBattle Platform = "battle"
	PlatformPSN    Platform = "psn"
	PlatformXBL    Platform = "xbl"
	PlatformAll    Platform = "all"
)

// ResolvePlatform maps a chat shorthand (battle, psn, xbl) to a provider platform.
// Anything else means all platforms.
func ResolvePlatform(shorthand string) Platform {
	switch shorthand {
	case "battle":
		return PlatformBattle
	case "psn":
		return PlatformPSN
	case "xbl":
		return PlatformXBL
	default:
		return PlatformAll
	}
}

// FetchStats resolves the platform shorthand and returns the MW/WZ profile of handle.
func (c *Client) FetchStats(ctx context.Context, handle, platform string) (json.RawMessage, error) {
	return c.WarzoneStats(ctx, handle, ResolvePlatform(platform))
}

// WarzoneStats requests the Modern Warfare / Warzone profile document of handle on platform.
// The returned bytes are the provider's "data" document, untouched.
func (c *Client) WarzoneStats(ctx context.Context, handle string, platform Platform) (json.RawMessage, error) {
	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()
	if sess == nil {
		return nil, ErrNotLoggedIn
	}

	endpoint := fmt.Sprintf("%s/stats/cod/v1/title/mw/platform/%s/gamer/%s/profile/type/wz",
		c.statsURL, url.PathEscape(string(platform)), url.PathEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("codapi: stats: %w", err)
	}
	sess.apply(req)

	start := time.Now()
	body, err := c.do(ctx, "stats", req)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("codapi: stats: decode response: %w", err)
	}
	if env.Status != "success" {
		return nil, &APIError{Op: "stats", Message: env.message()}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &APIError{Op: "stats", Message: "empty data for " + handle}
	}

	log.Debug().
		Str("handle", handle).
		Str("platform", string(platform)).
		Dur("duration", time.Since(start)).
		Msg("Stats fetched")

	return env.Data, nil
}

// apply attaches the session cookies and CSRF header to req.
func (s *session) apply(req *http.Request) {
	cookies := []string{
		"ACT_SSO_COOKIE=" + s.ssoCookie,
		"API_CSRF_TOKEN=" + s.csrfToken,
	}
	if s.accessToken != "" {
		cookies = append(cookies, "atkn="+s.accessToken)
	}

	req.Header.Set("Cookie", strings.Join(cookies, "; "))
	req.Header.Set("X-XSRF-TOKEN", s.csrfToken)
}
