package ynab

// Wire types for the YNAB v1 API. Amounts are milliunits.

type accountsResponse struct {
	Data struct {
		Accounts []wireAccount `json:"accounts"`
	} `json:"data"`
}

type accountResponse struct {
	Data struct {
		Account wireAccount `json:"account"`
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

type transactionsResponse struct {
	Data struct {
		Transactions []wireTransaction `json:"transactions"`
	} `json:"data"`
}

type wireTransaction struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Amount     int64  `json:"amount"`
	Memo       string `json:"memo"`
	AccountID  string `json:"account_id"`
	PayeeID    string `json:"payee_id"`
	CategoryID string `json:"category_id"`
}

type categoriesResponse struct {
	Data struct {
		CategoryGroups []struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			Categories []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"categories"`
		} `json:"category_groups"`
	} `json:"data"`
}

type payeesResponse struct {
	Data struct {
		Payees []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"payees"`
	} `json:"data"`
}
