// Package client provides the Info client for querying Hyperliquid market data and user information.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shoyowada/hlgo/constants"
	"github.com/shoyowada/hlgo/ratelimit"
	"github.com/shoyowada/hlgo/types"
)

// Info provides read-only access to Hyperliquid market data and user information.
type Info struct {
	*API
	coinToAsset       map[string]int
	nameToCoin        map[string]string
	assetToSzDecimals map[int]int
}

// NewInfo creates a new Info client and eagerly loads asset metadata.
func NewInfo(ctx context.Context, baseURL string, timeout time.Duration, log zerolog.Logger) (*Info, error) {
	if baseURL == "" {
		baseURL = constants.MainnetAPIURL
	}

	info := &Info{
		API:               NewAPI(baseURL, timeout, log),
		coinToAsset:       make(map[string]int),
		nameToCoin:        make(map[string]string),
		assetToSzDecimals: make(map[int]int),
	}

	if err := info.initializeMetadata(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return info, nil
}

func (i *Info) initializeMetadata(ctx context.Context) error {
	spotMeta, err := i.SpotMeta(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spot meta: %w", err)
	}

	for _, spotInfo := range spotMeta.Universe {
		asset := spotInfo.Index + constants.SpotAssetOffset
		i.coinToAsset[spotInfo.Name] = asset
		i.nameToCoin[spotInfo.Name] = spotInfo.Name

		baseToken := spotMeta.Tokens[spotInfo.Tokens[0]]
		quoteToken := spotMeta.Tokens[spotInfo.Tokens[1]]
		i.assetToSzDecimals[asset] = baseToken.SzDecimals

		name := fmt.Sprintf("%s/%s", baseToken.Name, quoteToken.Name)
		if _, exists := i.nameToCoin[name]; !exists {
			i.nameToCoin[name] = spotInfo.Name
		}
	}

	perpMeta, err := i.Meta(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to get perp meta: %w", err)
	}

	for asset, assetInfo := range perpMeta.Universe {
		i.coinToAsset[assetInfo.Name] = asset
		i.nameToCoin[assetInfo.Name] = assetInfo.Name
		i.assetToSzDecimals[asset] = assetInfo.SzDecimals
	}

	return nil
}

// NameToAsset converts a coin name to its asset ID.
func (i *Info) NameToAsset(name string) (int, error) {
	coin, ok := i.nameToCoin[name]
	if !ok {
		return 0, types.NewInvalidRequestError(fmt.Sprintf("unknown coin name: %s", name))
	}

	asset, ok := i.coinToAsset[coin]
	if !ok {
		return 0, types.NewInvalidRequestError(fmt.Sprintf("unknown coin: %s", coin))
	}

	return asset, nil
}

// UserState retrieves trading details about a user: positions, margin
// summary, and withdrawable balance.
func (i *Info) UserState(ctx context.Context, address string, dex string) (*types.UserState, error) {
	payload := map[string]any{
		"type": "clearinghouseState",
		"user": address,
		"dex":  dex,
	}

	var result types.UserState
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SpotUserState retrieves spot trading state for a user.
func (i *Info) SpotUserState(ctx context.Context, address string) (map[string]any, error) {
	payload := map[string]any{
		"type": "spotClearinghouseState",
		"user": address,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// OpenOrders retrieves a user's open orders.
func (i *Info) OpenOrders(ctx context.Context, address string, dex string) ([]types.OpenOrder, error) {
	payload := map[string]any{
		"type": "openOrders",
		"user": address,
		"dex":  dex,
	}

	var result []types.OpenOrder
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// FrontendOpenOrders retrieves a user's open orders with additional frontend info.
func (i *Info) FrontendOpenOrders(ctx context.Context, address string, dex string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "frontendOpenOrders",
		"user": address,
		"dex":  dex,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// AllMids retrieves all mid prices for actively traded coins.
func (i *Info) AllMids(ctx context.Context, dex string) (map[string]string, error) {
	payload := map[string]any{
		"type": "allMids",
		"dex":  dex,
	}

	var result map[string]string
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserFills retrieves a given user's fills.
func (i *Info) UserFills(ctx context.Context, address string) ([]types.Fill, error) {
	payload := map[string]any{
		"type": "userFills",
		"user": address,
	}

	var result []types.Fill
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserFillsByTime retrieves a given user's fills by time range.
func (i *Info) UserFillsByTime(ctx context.Context, address string, startTime int64, endTime *int64, aggregateByTime bool) ([]types.Fill, error) {
	payload := map[string]any{
		"type":            "userFillsByTime",
		"user":            address,
		"startTime":       startTime,
		"aggregateByTime": aggregateByTime,
	}

	if endTime != nil {
		payload["endTime"] = *endTime
	}

	var result []types.Fill
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Meta retrieves exchange perpetual metadata.
func (i *Info) Meta(ctx context.Context, dex string) (*types.Meta, error) {
	payload := map[string]any{
		"type": "meta",
		"dex":  dex,
	}

	var result types.Meta
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// MetaAndAssetCtxs retrieves exchange metadata with asset contexts.
func (i *Info) MetaAndAssetCtxs(ctx context.Context) (map[string]any, error) {
	payload := map[string]any{
		"type": "metaAndAssetCtxs",
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// PerpDexs retrieves all perpetual DEXs.
func (i *Info) PerpDexs(ctx context.Context) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "perpDexs",
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// SpotMeta retrieves exchange spot metadata.
func (i *Info) SpotMeta(ctx context.Context) (*types.SpotMeta, error) {
	payload := map[string]any{
		"type": "spotMeta",
	}

	var result types.SpotMeta
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SpotMetaAndAssetCtxs retrieves exchange spot asset contexts.
func (i *Info) SpotMetaAndAssetCtxs(ctx context.Context) (map[string]any, error) {
	payload := map[string]any{
		"type": "spotMetaAndAssetCtxs",
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// FundingHistory retrieves funding history for a given coin. Prefer the
// Funding builder for a fluent range query.
func (i *Info) FundingHistory(ctx context.Context, name string, startTime int64, endTime *int64) ([]map[string]any, error) {
	coin, ok := i.nameToCoin[name]
	if !ok {
		return nil, types.NewInvalidRequestError(fmt.Sprintf("unknown coin: %s", name))
	}

	payload := map[string]any{
		"type":      "fundingHistory",
		"coin":      coin,
		"startTime": startTime,
	}

	if endTime != nil {
		payload["endTime"] = *endTime
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Funding starts a fluent funding-history query: Funding(coin).Range(a, b).Send(ctx).
func (i *Info) Funding(coin string) *FundingQuery {
	return &FundingQuery{info: i, coin: coin}
}

// FundingQuery is the builder returned by Info.Funding.
type FundingQuery struct {
	info    *Info
	coin    string
	start   int64
	end     *int64
}

// Range sets the [start, end) time window in unix milliseconds. A nil or
// omitted end queries up to the present.
func (q *FundingQuery) Range(startTime int64, endTime *int64) *FundingQuery {
	q.start = startTime
	q.end = endTime
	return q
}

// Send executes the query.
func (q *FundingQuery) Send(ctx context.Context) ([]map[string]any, error) {
	return q.info.FundingHistory(ctx, q.coin, q.start, q.end)
}

// UserFundingHistory retrieves a user's funding history.
func (i *Info) UserFundingHistory(ctx context.Context, user string, startTime int64, endTime *int64) ([]map[string]any, error) {
	payload := map[string]any{
		"type":      "userFunding",
		"user":      user,
		"startTime": startTime,
	}

	if endTime != nil {
		payload["endTime"] = *endTime
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// L2Snapshot retrieves the L2 order book snapshot for a given coin.
func (i *Info) L2Snapshot(ctx context.Context, name string) (*types.L2BookData, error) {
	coin, ok := i.nameToCoin[name]
	if !ok {
		return nil, types.NewInvalidRequestError(fmt.Sprintf("unknown coin: %s", name))
	}

	payload := map[string]any{
		"type": "l2Book",
		"coin": coin,
	}

	var result types.L2BookData
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CandlesSnapshot retrieves a candles snapshot for a given coin. Prefer the
// Candles builder for a fluent interval+range query.
func (i *Info) CandlesSnapshot(ctx context.Context, name string, interval string, startTime int64, endTime int64) ([]map[string]any, error) {
	coin, ok := i.nameToCoin[name]
	if !ok {
		return nil, types.NewInvalidRequestError(fmt.Sprintf("unknown coin: %s", name))
	}

	req := map[string]any{
		"coin":      coin,
		"interval":  interval,
		"startTime": startTime,
		"endTime":   endTime,
	}

	payload := map[string]any{
		"type": "candleSnapshot",
		"req":  req,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Candles starts a fluent candle query: Candles(coin).Interval("1m").Range(a, b).Send(ctx).
func (i *Info) Candles(coin string) *CandlesQuery {
	return &CandlesQuery{info: i, coin: coin, interval: "1m"}
}

// CandlesQuery is the builder returned by Info.Candles.
type CandlesQuery struct {
	info     *Info
	coin     string
	interval string
	start    int64
	end      int64
}

// Interval sets the candle interval (e.g. "1m", "15m", "1h", "1d").
func (q *CandlesQuery) Interval(interval string) *CandlesQuery {
	q.interval = interval
	return q
}

// Range sets the [start, end) time window in unix milliseconds.
func (q *CandlesQuery) Range(startTime, endTime int64) *CandlesQuery {
	q.start = startTime
	q.end = endTime
	return q
}

// Send executes the query.
func (q *CandlesQuery) Send(ctx context.Context) ([]map[string]any, error) {
	return q.info.CandlesSnapshot(ctx, q.coin, q.interval, q.start, q.end)
}

// UserFees retrieves the volume of trading activity associated with a user.
func (i *Info) UserFees(ctx context.Context, address string) (map[string]any, error) {
	payload := map[string]any{
		"type": "userFees",
		"user": address,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserStakingSummary retrieves the staking summary associated with a user.
func (i *Info) UserStakingSummary(ctx context.Context, address string) (map[string]any, error) {
	payload := map[string]any{
		"type": "delegatorSummary",
		"user": address,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserStakingDelegations retrieves the user's staking delegations.
func (i *Info) UserStakingDelegations(ctx context.Context, address string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "delegations",
		"user": address,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserStakingRewards retrieves the historic staking rewards associated with a user.
func (i *Info) UserStakingRewards(ctx context.Context, address string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "delegatorRewards",
		"user": address,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// DelegatorHistory retrieves comprehensive staking history for a user.
func (i *Info) DelegatorHistory(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "delegatorHistory",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QueryOrderByOid queries order status by order ID.
func (i *Info) QueryOrderByOid(ctx context.Context, user string, oid int) (map[string]any, error) {
	payload := map[string]any{
		"type": "orderStatus",
		"user": user,
		"oid":  oid,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QueryOrderByCloid queries order status by client order ID.
func (i *Info) QueryOrderByCloid(ctx context.Context, user string, cloid *types.Cloid) (map[string]any, error) {
	payload := map[string]any{
		"type": "orderStatus",
		"user": user,
		"oid":  cloid.ToRaw(),
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QueryReferralState queries referral state for a user.
func (i *Info) QueryReferralState(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "referral",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QuerySubAccounts queries sub-accounts for a user.
func (i *Info) QuerySubAccounts(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "subAccounts",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// HistoricalOrders retrieves a user's historical orders (max 2000 most recent).
func (i *Info) HistoricalOrders(ctx context.Context, user string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "historicalOrders",
		"user": user,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserNonFundingLedgerUpdates retrieves non-funding ledger updates for a user.
func (i *Info) UserNonFundingLedgerUpdates(ctx context.Context, user string, startTime int64, endTime *int64) ([]map[string]any, error) {
	payload := map[string]any{
		"type":      "userNonFundingLedgerUpdates",
		"user":      user,
		"startTime": startTime,
	}

	if endTime != nil {
		payload["endTime"] = *endTime
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// Portfolio retrieves comprehensive portfolio performance data.
func (i *Info) Portfolio(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "portfolio",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// ExtraAgents retrieves extra agents associated with a user.
func (i *Info) ExtraAgents(ctx context.Context, user string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "extraAgents",
		"user": user,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QueryUserToMultiSigSigners queries the multi-sig signer set a user has
// delegated to, if any.
func (i *Info) QueryUserToMultiSigSigners(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "userToMultiSigSigners",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QueryPerpDeployAuctionStatus queries the current perp-deploy gas auction state.
func (i *Info) QueryPerpDeployAuctionStatus(ctx context.Context) (map[string]any, error) {
	payload := map[string]any{
		"type": "perpDeployAuctionStatus",
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QuerySpotDeployAuctionStatus queries the spot-deploy auction state relevant to a user.
func (i *Info) QuerySpotDeployAuctionStatus(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "spotDeployState",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// QueryUserDexAbstractionState queries whether a user has enabled dex
// abstraction (builder-deployed perp dex routing).
func (i *Info) QueryUserDexAbstractionState(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "userDexAbstractionState",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserTwapSliceFills retrieves the fills generated by a user's TWAP order slices.
func (i *Info) UserTwapSliceFills(ctx context.Context, user string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "userTwapSliceFills",
		"user": user,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfoHeavy, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserVaultEquities retrieves a user's equity positions across vaults.
func (i *Info) UserVaultEquities(ctx context.Context, user string) ([]map[string]any, error) {
	payload := map[string]any{
		"type": "userVaultEquities",
		"user": user,
	}

	var result []map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserRole reports whether a user is a regular account, an agent, a
// sub-account, or a vault.
func (i *Info) UserRole(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "userRole",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UserRateLimit reports a user's current cumulative rate-limit usage as
// tracked by the venue itself (independent of the local ratelimit.Bucket).
func (i *Info) UserRateLimit(ctx context.Context, user string) (map[string]any, error) {
	payload := map[string]any{
		"type": "userRateLimit",
		"user": user,
	}

	var result map[string]any
	if err := i.infoPost(ctx, "/info", payload, ratelimit.WeightInfo, &result); err != nil {
		return nil, err
	}

	return result, nil
}
