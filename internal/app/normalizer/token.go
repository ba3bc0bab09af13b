package normalizer

import (
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/utils"
)

const ResourceToken = "token"

// NormalizeToken returns the token market record carried by env.
func NormalizeToken(env entity.Envelope) (entity.Token, error) {
	rec, err := selectObject(env, ResourceToken, "token")
	if err != nil {
		return entity.Token{}, err
	}
	return tokenFromRecord(rec), nil
}

// NormalizeTokens returns the tokens of a token list endpoint.
func NormalizeTokens(env entity.Envelope) ([]entity.Token, error) {
	list, err := NormalizeList(env, entity.ResourceTokens, "tokens")
	if err != nil {
		return nil, err
	}
	out := make([]entity.Token, 0, len(list.Items))
	for _, item := range list.Items {
		out = append(out, tokenFromRecord(item))
	}
	return out, nil
}

func tokenFromRecord(m map[string]any) entity.Token {
	symbol := utils.StringField(m, "symbol")
	if symbol == "" {
		symbol = entity.UnknownSymbol
	}
	return entity.Token{
		ID:              utils.StringField(m, "_id", "id", "tokenId"),
		Symbol:          symbol,
		Name:            utils.StringField(m, "name"),
		Mint:            utils.StringField(m, "mint", "mintAddress", "address"),
		PriceUSD:        numberField(m, "priceUSD", "priceUsd", "price", "currentPrice"),
		MarketCap:       numberField(m, "marketCap"),
		Change24h:       numberField(m, "change24h", "priceChange24h"),
		GraphCronActive: utils.BoolField(m, "graphCronActive", "isGraphCronActive", "cronActive"),
		AllowLatest:     utils.BoolField(m, "allowLatest", "isAllowLatest"),
	}
}
