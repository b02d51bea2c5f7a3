package exchange

import "github.com/udisondev/tradecraft/internal/model"

// Trade failure messages.
const (
	MsgSelfTrade           = "can't trade with yourself"
	MsgBuyerInTransaction  = "buyer in transaction"
	MsgSellerInTransaction = "seller in transaction"
	MsgInsufficientFunds   = "buyer has insufficient funds"
	MsgOutOfStock          = "shop out of stock"
	MsgSellerFull          = "seller could not accept payment"
	MsgBuyerFull           = "buyer could not accept reward"
)

// TradeResult represents the outcome of a basket trade.
type TradeResult struct {
	Success bool
	Message string
}

func tradeFailed(msg string) TradeResult {
	return TradeResult{Message: msg}
}

// TradeBaskets swaps cost (buyer -> seller) for reward (seller -> buyer).
//
// Flow:
//  1. take every cost line from buyer
//  2. take every reward line from seller
//  3. give cost to seller, reward to buyer
//
// Any line that does not fully apply rolls back both parties, so on failure
// every count referenced by either basket is unchanged on both sides.
func TradeBaskets(buyer, seller model.Container, cost, reward model.Basket) (TradeResult, error) {
	if buyer == nil || seller == nil {
		return TradeResult{}, ErrNilContainer
	}
	if buyer == seller {
		return tradeFailed(MsgSelfTrade), nil
	}
	if buyer.InTransaction() {
		return tradeFailed(MsgBuyerInTransaction), nil
	}
	if seller.InTransaction() {
		return tradeFailed(MsgSellerInTransaction), nil
	}

	sp := open(buyer, seller)
	defer sp.rollback()

	steps := []struct {
		party  model.Container
		lines  model.Basket
		add    bool
		failed string
	}{
		{buyer, cost, false, MsgInsufficientFunds},
		{seller, reward, false, MsgOutOfStock},
		{seller, cost, true, MsgSellerFull},
		{buyer, reward, true, MsgBuyerFull},
	}

	for _, step := range steps {
		for _, carrier := range step.lines.Carriers() {
			var remaining uint32
			var err error
			if step.add {
				_, remaining, err = step.party.Add(carrier)
			} else {
				_, remaining, err = step.party.Subtract(carrier)
			}
			if err != nil {
				return TradeResult{}, err
			}
			if remaining != 0 {
				return tradeFailed(step.failed), nil
			}
		}
	}

	sp.commit()
	return TradeResult{Success: true}, nil
}
