package payments

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	// Daraja sends this as a string, e.g. "3599".
	ExpiresIn string `json:"expires_in"`
}

type tokenCache struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// accessToken returns the cached OAuth token, fetching a fresh one when
// expired. Double-checked under the write lock so concurrent initiations
// trigger at most one fetch.
func (g *MpesaGateway) accessToken() (string, error) {
	g.tokens.mu.RLock()
	if g.tokens.token != "" && time.Now().Before(g.tokens.expiry) {
		token := g.tokens.token
		g.tokens.mu.RUnlock()
		return token, nil
	}
	g.tokens.mu.RUnlock()

	g.tokens.mu.Lock()
	defer g.tokens.mu.Unlock()

	if g.tokens.token != "" && time.Now().Before(g.tokens.expiry) {
		return g.tokens.token, nil
	}

	log.Println("Fetching new M-Pesa access token...")

	req, err := http.NewRequest("GET", g.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.ConsumerKey, g.cfg.ConsumerSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token API returned non-200 status: %s", resp.Status)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token API returned an empty access token")
	}

	expiresIn, err := strconv.Atoi(tokenResp.ExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 3600
	}
	// Refresh five minutes early so a token never expires mid-request.
	g.tokens.token = tokenResp.AccessToken
	g.tokens.expiry = time.Now().Add(time.Duration(expiresIn-300) * time.Second)
	log.Println("Successfully fetched and cached M-Pesa access token.")

	return g.tokens.token, nil
}
