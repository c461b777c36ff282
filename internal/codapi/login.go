package codapi

import (
	"context"
	"crypto/md5" //nolint:gosec // device ids only need to look like the official app ones
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Login registers a fresh device id and authenticates with email and password.
// On success the session cookies are kept for all following lookups.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return &APIError{Op: "login", Message: "email and password are required"}
	}

	deviceID := newDeviceID()

	authHeader, err := c.registerDevice(ctx, deviceID)
	if err != nil {
		return err
	}

	req, err := newJSONRequest(ctx, http.MethodPost, c.profileURL+"/cod/mapp/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("codapi: login: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+authHeader)
	req.Header.Set("x_cod_device_id", deviceID)

	body, err := c.do(ctx, "login", req)
	if err != nil {
		return err
	}

	var resp struct {
		Success   bool   `json:"success"`
		SSOCookie string `json:"s_ACT_SSO_COOKIE"`
		ATKN      string `json:"atkn"`
		Token     string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("codapi: login: decode response: %w", err)
	}
	if !resp.Success || resp.SSOCookie == "" {
		return &APIError{Op: "login", StatusCode: http.StatusUnauthorized, Message: "incorrect username or password"}
	}

	c.mu.Lock()
	c.session = &session{
		ssoCookie:   resp.SSOCookie,
		accessToken: resp.ATKN,
		csrfToken:   uuid.NewString(),
	}
	c.mu.Unlock()

	log.Debug().Str("device_id", deviceID).Msg("Provider login succeeded")
	return nil
}

// registerDevice announces deviceID to the profile service and returns the
// bearer token required by the login call.
func (c *Client) registerDevice(ctx context.Context, deviceID string) (string, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.profileURL+"/cod/mapp/registerDevice", map[string]string{
		"deviceId": deviceID,
	})
	if err != nil {
		return "", fmt.Errorf("codapi: register device: %w", err)
	}

	body, err := c.do(ctx, "register device", req)
	if err != nil {
		return "", err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("codapi: register device: decode response: %w", err)
	}
	if env.Status != "success" {
		return "", &APIError{Op: "register device", Message: env.message()}
	}

	var data struct {
		AuthHeader string `json:"authHeader"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AuthHeader == "" {
		return "", &APIError{Op: "register device", Message: "missing auth header in response"}
	}

	return data.AuthHeader, nil
}

func newDeviceID() string {
	sum := md5.Sum([]byte(uuid.NewString())) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
