package dataflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/ryanwei/FolioGo/internal/config"
	"github.com/ryanwei/FolioGo/internal/models"
)

// LongportClient serves daily candlesticks through the Longport OpenAPI.
// It is selected over Yahoo Finance when Longport credentials are configured.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

// Window returns up to days daily bars, oldest first.
func (lc *LongportClient) Window(ctx context.Context, symbol string, days int) ([]*models.MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if lc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}

	symbol = NormalizeSymbol(symbol)
	sticks, err := lc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, int32(days), quote.AdjustTypeNo)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, symbol, err)
	}
	if len(sticks) == 0 {
		return nil, fmt.Errorf("%w: no candlesticks for %s", ErrDataUnavailable, symbol)
	}

	result := make([]*models.MarketData, 0, len(sticks))
	for _, stick := range sticks {
		result = append(result, &models.MarketData{
			Symbol:   symbol,
			Date:     time.Unix(stick.Timestamp, 0),
			Open:     decimalValue(stick.Open),
			High:     decimalValue(stick.High),
			Low:      decimalValue(stick.Low),
			Close:    decimalValue(stick.Close),
			AdjClose: decimalValue(stick.Close),
			Volume:   stick.Volume,
		})
	}

	return result, nil
}

func decimalValue(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
