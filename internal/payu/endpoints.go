package payu

import "net/url"

const (
	pathOAuthToken = "/pl/standard/user/oauth/authorize"
	pathOrders     = "/api/v2_1/orders"
	pathShops      = "/api/v2_1/shops"
	pathPayouts    = "/api/v2_1/payouts"
	pathReports    = "/api/v2_1/reports"
)

func orderPath(orderID string) string {
	return pathOrders + "/" + url.PathEscape(orderID)
}

func orderCapturesPath(orderID string) string {
	return orderPath(orderID) + "/captures"
}

func orderTransactionsPath(orderID string) string {
	return orderPath(orderID) + "/transactions"
}

func orderRefundsPath(orderID string) string {
	return orderPath(orderID) + "/refunds"
}

func orderRefundPath(orderID, refundID string) string {
	return orderRefundsPath(orderID) + "/" + url.PathEscape(refundID)
}

func shopPath(shopID string) string {
	return pathShops + "/" + url.PathEscape(shopID)
}

func payoutPath(payoutID string) string {
	return pathPayouts + "/" + url.PathEscape(payoutID)
}

func reportPath(reportID string) string {
	return pathReports + "/" + url.PathEscape(reportID)
}
