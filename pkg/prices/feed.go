package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vaultora-client/pkg/config"
)

// ── Spot Price Feed ─────────────────────────────────────────
// Third-party public price API (CoinGecko shape). Read-only, best effort:
// a failed refresh keeps the previous prices on screen.

var coinIDs = map[config.Token]string{
	config.TokenBTC:  "bitcoin",
	config.TokenETH:  "ethereum",
	config.TokenUSDT: "tether",
}

type Feed struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Feed {
	return &Feed{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Spots fetches current USD prices for the given tokens in one call.
func (f *Feed) Spots(ctx context.Context, tokens []config.Token) (map[config.Token]float64, error) {
	ids := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if id, ok := coinIDs[t]; ok {
			ids = append(ids, id)
		}
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		f.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed: HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var body map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("price feed unmarshal: %w", err)
	}

	out := make(map[config.Token]float64, len(tokens))
	for _, t := range tokens {
		if entry, ok := body[coinIDs[t]]; ok {
			out[t] = entry.USD
		}
	}
	return out, nil
}

// Spot fetches one token's USD price.
func (f *Feed) Spot(ctx context.Context, token config.Token) (float64, error) {
	spots, err := f.Spots(ctx, []config.Token{token})
	if err != nil {
		return 0, err
	}
	price, ok := spots[token]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("no price for %s", token)
	}
	return price, nil
}

// Watch polls on a fixed interval until ctx is cancelled — callers cancel
// when the owning view unmounts so a stale poller never fires into a dead
// screen. Failed refreshes are logged and skipped.
func (f *Feed) Watch(ctx context.Context, interval time.Duration, tokens []config.Token, fn func(map[config.Token]float64)) error {
	if spots, err := f.Spots(ctx, tokens); err == nil {
		fn(spots)
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			spots, err := f.Spots(ctx, tokens)
			if err != nil {
				log.Debug().Err(err).Msg("price refresh failed")
				continue
			}
			fn(spots)
		}
	}
}

// Convert returns the crypto equivalent of a USD amount at the given spot
// price, 0 when no price is known yet.
func Convert(usd, spot float64) float64 {
	if spot <= 0 {
		return 0
	}
	return usd / spot
}

// FormatAmount renders a crypto amount with the token's display precision:
// 8 fractional digits for BTC, 6 for everything else.
func FormatAmount(token config.Token, amount float64) string {
	if token == config.TokenBTC {
		return fmt.Sprintf("%.8f", amount)
	}
	return fmt.Sprintf("%.6f", amount)
}
