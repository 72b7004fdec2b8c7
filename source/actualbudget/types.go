package actualbudget

// Wire types for the Actual bridge server. Amounts are centiunits.

type loginRequest struct {
	Password           string `json:"password"`
	EncryptionPassword string `json:"encryptionPassword,omitempty"`
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type wireAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Balance  int64  `json:"balance"`
	Closed   bool   `json:"closed"`
	OnBudget bool   `json:"on_budget"`
}

type accountsResponse struct {
	Data []wireAccount `json:"data"`
}

type accountResponse struct {
	Data wireAccount `json:"data"`
}

type wireTransaction struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Amount   int64  `json:"amount"`
	Notes    string `json:"notes"`
	Account  string `json:"account"`
	Payee    string `json:"payee"`
	Category string `json:"category"`
}

type transactionsResponse struct {
	Data []wireTransaction `json:"data"`
}

type namedListResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}
