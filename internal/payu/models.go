package payu

// Status is the status block PayU attaches to most responses.
type Status struct {
	StatusCode  string `json:"statusCode"`
	StatusDesc  string `json:"statusDesc,omitempty"`
	Code        string `json:"code,omitempty"`
	CodeLiteral string `json:"codeLiteral,omitempty"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	GrantType   string `json:"grant_type"`
}

type Product struct {
	Name      string `json:"name" validate:"required"`
	UnitPrice string `json:"unitPrice" validate:"required,digits"`
	Quantity  string `json:"quantity" validate:"required,digits"`
	Virtual   bool   `json:"virtual,omitempty"`
}

type Buyer struct {
	ExtCustomerID string `json:"extCustomerId,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Language      string `json:"language,omitempty"`
}

// OrderCreateRequest is the body of POST /api/v2_1/orders. Amounts are
// strings of minor units ("21000" is 210.00).
type OrderCreateRequest struct {
	ContinueURL           string    `json:"continueUrl,omitempty" validate:"omitempty,max=1024"`
	NotifyURL             string    `json:"notifyUrl,omitempty" validate:"omitempty,max=1024"`
	CustomerIP            string    `json:"customerIp" validate:"required,customer_ip"`
	MerchantPosID         string    `json:"merchantPosId" validate:"required"`
	Description           string    `json:"description" validate:"required,max=4000"`
	AdditionalDescription string    `json:"additionalDescription,omitempty" validate:"omitempty,max=1024"`
	VisibleDescription    string    `json:"visibleDescription,omitempty" validate:"omitempty,max=80"`
	StatementDescription  string    `json:"statementDescription,omitempty" validate:"omitempty,max=22"`
	ExtOrderID            string    `json:"extOrderId,omitempty" validate:"omitempty,max=1024"`
	CurrencyCode          string    `json:"currencyCode" validate:"required,currency_code"`
	TotalAmount           string    `json:"totalAmount" validate:"required,digits"`
	ValidityTime          string    `json:"validityTime,omitempty" validate:"omitempty,digits"`
	Buyer                 *Buyer    `json:"buyer,omitempty"`
	Products              []Product `json:"products" validate:"required,min=1,dive"`
}

type OrderCreateResponse struct {
	Status      Status `json:"status"`
	RedirectURI string `json:"redirectUri,omitempty"`
	OrderID     string `json:"orderId"`
	ExtOrderID  string `json:"extOrderId,omitempty"`
}

type Order struct {
	OrderID         string    `json:"orderId"`
	ExtOrderID      string    `json:"extOrderId,omitempty"`
	OrderCreateDate string    `json:"orderCreateDate,omitempty"`
	NotifyURL       string    `json:"notifyUrl,omitempty"`
	CustomerIP      string    `json:"customerIp,omitempty"`
	MerchantPosID   string    `json:"merchantPosId,omitempty"`
	Description     string    `json:"description,omitempty"`
	CurrencyCode    string    `json:"currencyCode"`
	TotalAmount     string    `json:"totalAmount"`
	Status          string    `json:"status"`
	Buyer           *Buyer    `json:"buyer,omitempty"`
	Products        []Product `json:"products,omitempty"`
}

type OrderRetrieveResponse struct {
	Orders     []Order         `json:"orders"`
	Status     Status          `json:"status"`
	Properties []NameValuePair `json:"properties,omitempty"`
}

type NameValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderStatusResponse is returned by capture and cancel.
type OrderStatusResponse struct {
	Status     Status `json:"status"`
	OrderID    string `json:"orderId,omitempty"`
	ExtOrderID string `json:"extOrderId,omitempty"`
}

// TransactionsResponse keeps transactions untyped: their shape depends on
// the payment method.
type TransactionsResponse struct {
	Transactions []map[string]any `json:"transactions"`
}

type RefundRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount,omitempty"`
	ExtRefundID string `json:"extRefundId,omitempty"`
}

type Refund struct {
	RefundID         string `json:"refundId"`
	ExtRefundID      string `json:"extRefundId,omitempty"`
	Amount           string `json:"amount"`
	CurrencyCode     string `json:"currencyCode"`
	Description      string `json:"description"`
	CreationDateTime string `json:"creationDateTime,omitempty"`
	Status           string `json:"status"`
	StatusDateTime   string `json:"statusDateTime,omitempty"`
}

type RefundResponse struct {
	OrderID string `json:"orderId"`
	Refund  Refund `json:"refund"`
	Status  Status `json:"status"`
}

type RefundListResponse struct {
	Refunds []Refund `json:"refunds"`
}

type ShopBalance struct {
	CurrencyCode string `json:"currencyCode"`
	Total        string `json:"total"`
	Available    string `json:"available"`
}

type Shop struct {
	ShopID       string      `json:"shopId"`
	Name         string      `json:"name"`
	CurrencyCode string      `json:"currencyCode"`
	Balance      ShopBalance `json:"balance"`
}

// Statement is a downloaded settlement report.
type Statement struct {
	Data        []byte
	Filename    string
	ContentType string
	HTTPStatus  int
}
