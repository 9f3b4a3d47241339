package ws

import "encoding/json"

// Typed subscription helpers. Each decodes every Message's Data into the
// payload type documented for that channel in ws/types.go and forwards it
// on a buffered channel, so callers who don't want to unmarshal raw JSON
// themselves can use these instead of Subscribe. Mirrors the convenience
// the teacher's per-subscription New*Client constructors offered, built on
// top of the shared multiplexed connection instead of a dedicated socket
// per feed.

func typedSubscribe[T any](m *Multiplexer, sub Subscription) (int64, <-chan T, error) {
	id, raw, err := m.Subscribe(sub)
	if err != nil {
		return 0, nil, err
	}
	out := make(chan T, 64)
	go func() {
		defer close(out)
		for msg := range raw {
			var v T
			if err := json.Unmarshal(msg.Data, &v); err != nil {
				continue
			}
			out <- v
		}
	}()
	return id, out, nil
}

func (m *Multiplexer) SubscribeTrades(coin string) (int64, <-chan []WsTrade, error) {
	return typedSubscribe[[]WsTrade](m, Subscription{Type: SubscriptionTrades, Coin: coin})
}

func (m *Multiplexer) SubscribeL2Book(coin string) (int64, <-chan WsBook, error) {
	return typedSubscribe[WsBook](m, Subscription{Type: SubscriptionL2Book, Coin: coin})
}

func (m *Multiplexer) SubscribeBBO(coin string) (int64, <-chan WsBbo, error) {
	return typedSubscribe[WsBbo](m, Subscription{Type: SubscriptionBBO, Coin: coin})
}

func (m *Multiplexer) SubscribeCandle(coin, interval string) (int64, <-chan Candle, error) {
	return typedSubscribe[Candle](m, Subscription{Type: SubscriptionCandle, Coin: coin, Interval: interval})
}

func (m *Multiplexer) SubscribeAllMids() (int64, <-chan AllMids, error) {
	return typedSubscribe[AllMids](m, Subscription{Type: SubscriptionAllMids})
}

func (m *Multiplexer) SubscribeOrderUpdates(user string) (int64, <-chan []WsOrder, error) {
	return typedSubscribe[[]WsOrder](m, Subscription{Type: SubscriptionOrderUpdates, User: user})
}

func (m *Multiplexer) SubscribeOpenOrders(user string) (int64, <-chan WsOpenOrders, error) {
	return typedSubscribe[WsOpenOrders](m, Subscription{Type: SubscriptionOpenOrders, User: user})
}

func (m *Multiplexer) SubscribeClearinghouseState(user string) (int64, <-chan WsClearinghouseState, error) {
	return typedSubscribe[WsClearinghouseState](m, Subscription{Type: SubscriptionClearinghouseState, User: user})
}

func (m *Multiplexer) SubscribeUserFills(user string) (int64, <-chan WsUserFills, error) {
	return typedSubscribe[WsUserFills](m, Subscription{Type: SubscriptionUserFills, User: user})
}

func (m *Multiplexer) SubscribeUserFundings(user string) (int64, <-chan WsUserFundings, error) {
	return typedSubscribe[WsUserFundings](m, Subscription{Type: SubscriptionUserFundings, User: user})
}

func (m *Multiplexer) SubscribeUserNonFundingLedgerUpdates(user string) (int64, <-chan WsUserNonFundingLedgerUpdates, error) {
	return typedSubscribe[WsUserNonFundingLedgerUpdates](m, Subscription{Type: SubscriptionUserNonFundingLedgerUpdates, User: user})
}

func (m *Multiplexer) SubscribeNotification(user string) (int64, <-chan Notification, error) {
	return typedSubscribe[Notification](m, Subscription{Type: SubscriptionNotification, User: user})
}

func (m *Multiplexer) SubscribeWebData2(user string) (int64, <-chan WebData2, error) {
	return typedSubscribe[WebData2](m, Subscription{Type: SubscriptionWebData2, User: user})
}

func (m *Multiplexer) SubscribeWebData3(user string) (int64, <-chan WebData3, error) {
	return typedSubscribe[WebData3](m, Subscription{Type: SubscriptionWebData3, User: user})
}

func (m *Multiplexer) SubscribeTwapStates(user string) (int64, <-chan WsTwapStates, error) {
	return typedSubscribe[WsTwapStates](m, Subscription{Type: SubscriptionTwapStates, User: user})
}

func (m *Multiplexer) SubscribeUserTwapSliceFills(user string) (int64, <-chan WsUserTwapSliceFills, error) {
	return typedSubscribe[WsUserTwapSliceFills](m, Subscription{Type: SubscriptionUserTwapSliceFills, User: user})
}

func (m *Multiplexer) SubscribeUserTwapHistory(user string) (int64, <-chan WsUserTwapHistory, error) {
	return typedSubscribe[WsUserTwapHistory](m, Subscription{Type: SubscriptionUserTwapHistory, User: user})
}

func (m *Multiplexer) SubscribeActiveAssetCtx(coin string) (int64, <-chan WsActiveAssetCtx, error) {
	return typedSubscribe[WsActiveAssetCtx](m, Subscription{Type: SubscriptionActiveAssetCtx, Coin: coin})
}

func (m *Multiplexer) SubscribeActiveAssetData(user, coin string) (int64, <-chan WsActiveAssetData, error) {
	return typedSubscribe[WsActiveAssetData](m, Subscription{Type: SubscriptionActiveAssetData, User: user, Coin: coin})
}
