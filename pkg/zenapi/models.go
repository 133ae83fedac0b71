package zenapi

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Timestamp is an instant encoded as integral unix seconds, the way the
// sync API transmits `changed`, `created` and deletion stamps.
type Timestamp struct {
	time.Time
}

// Now returns the current instant truncated to whole seconds.
func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Unix())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var secs int64
	if err := json.Unmarshal(data, &secs); err != nil {
		return err
	}
	t.Time = time.Unix(secs, 0).UTC()
	return nil
}

// Instrument is a currency. System entity: the server owns it, clients
// only read it.
type Instrument struct {
	ID         int       `json:"id" validate:"required"`
	Changed    Timestamp `json:"changed" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	ShortTitle string    `json:"shortTitle" validate:"required"`
	Symbol     string    `json:"symbol"`
	Rate       float64   `json:"rate"`
}

// Company is a bank or financial institution. System entity.
type Company struct {
	ID        int       `json:"id" validate:"required"`
	Changed   Timestamp `json:"changed" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	FullTitle string    `json:"fullTitle"`
	WWW       string    `json:"www"`
	Country   string    `json:"country"`
}

// User is an account holder. System entity. Currency references an
// Instrument, Parent an optional parent User.
type User struct {
	ID       int       `json:"id" validate:"required"`
	Changed  Timestamp `json:"changed" validate:"required"`
	Login    *string   `json:"login"`
	Currency int       `json:"currency" validate:"required"`
	Parent   *int      `json:"parent"`
}

// Account is a money account (card, cash, deposit, loan).
type Account struct {
	ID               string    `json:"id" validate:"required,uuid"`
	Changed          Timestamp `json:"changed" validate:"required"`
	User             int       `json:"user" validate:"required"`
	Title            string    `json:"title" validate:"required"`
	Type             string    `json:"type" validate:"required,oneof=cash ccard checking loan deposit emoney debt"`
	Instrument       int       `json:"instrument"`
	Company          int       `json:"company"`
	SyncID           []string  `json:"syncID"`
	Balance          float64   `json:"balance"`
	StartBalance     float64   `json:"startBalance"`
	InBalance        bool      `json:"inBalance"`
	EnableCorrection bool      `json:"enableCorrection"`
	EnableSMS        bool      `json:"enableSMS"`
	Archive          bool      `json:"archive"`
	Private          bool      `json:"private"`
	Capitalization   bool      `json:"capitalization"`
	Percent          float64   `json:"percent"`
	StartDate        string    `json:"startDate"`
	EndDateOffset    int       `json:"endDateOffset"`
	PayoffStep       int       `json:"payoffStep"`
	PayoffInterval   int       `json:"payoffInterval"`
	Color            int       `json:"color"`
	Icon             string    `json:"icon"`
	Savings          bool      `json:"savings"`
}

// Tag is a transaction category.
type Tag struct {
	ID             string    `json:"id" validate:"required,uuid"`
	Changed        Timestamp `json:"changed" validate:"required"`
	User           int       `json:"user" validate:"required"`
	Title          string    `json:"title" validate:"required"`
	Parent         *string   `json:"parent" validate:"omitempty,uuid"`
	Icon           string    `json:"icon"`
	Picture        string    `json:"picture"`
	Color          int       `json:"color"`
	ShowIncome     bool      `json:"showIncome"`
	ShowOutcome    bool      `json:"showOutcome"`
	BudgetIncome   bool      `json:"budgetIncome"`
	BudgetOutcome  bool      `json:"budgetOutcome"`
	Required       bool      `json:"required"`
	Capitalization bool      `json:"capitalization"`
	Percent        float64   `json:"percent"`
	StartDate      string    `json:"startDate"`
	EndDateOffset  int       `json:"endDateOffset"`
	PayoffStep     int       `json:"payoffStep"`
	PayoffInterval int       `json:"payoffInterval"`
}

// Merchant is a named counterparty.
type Merchant struct {
	ID      string    `json:"id" validate:"required,uuid"`
	Changed Timestamp `json:"changed" validate:"required"`
	User    int       `json:"user" validate:"required"`
	Title   string    `json:"title" validate:"required"`
}

// Reminder is a recurring planned operation.
type Reminder struct {
	ID                string    `json:"id" validate:"required,uuid"`
	Changed           Timestamp `json:"changed" validate:"required"`
	User              int       `json:"user" validate:"required"`
	IncomeInstrument  int       `json:"incomeInstrument"`
	IncomeAccount     string    `json:"incomeAccount" validate:"required"`
	Income            float64   `json:"income" validate:"gte=0"`
	OutcomeInstrument int       `json:"outcomeInstrument"`
	OutcomeAccount    string    `json:"outcomeAccount" validate:"required"`
	Outcome           float64   `json:"outcome" validate:"gte=0"`
	Tag               []string  `json:"tag" validate:"omitempty,dive,uuid"`
	Merchant          *string   `json:"merchant" validate:"omitempty,uuid"`
	Payee             *string   `json:"payee"`
	Comment           *string   `json:"comment"`
	Interval          *int      `json:"interval"`
	Step              *int      `json:"step"`
	Points            []int     `json:"points"`
	StartDate         string    `json:"startDate" validate:"required"`
	EndDate           *string   `json:"endDate"`
	Notify            bool      `json:"notify"`
}

// ReminderMarker is one concrete occurrence of a Reminder.
type ReminderMarker struct {
	ID                string    `json:"id" validate:"required,uuid"`
	Changed           Timestamp `json:"changed" validate:"required"`
	User              int       `json:"user" validate:"required"`
	IncomeInstrument  int       `json:"incomeInstrument"`
	IncomeAccount     string    `json:"incomeAccount" validate:"required"`
	Income            float64   `json:"income" validate:"gte=0"`
	OutcomeInstrument int       `json:"outcomeInstrument"`
	OutcomeAccount    string    `json:"outcomeAccount" validate:"required"`
	Outcome           float64   `json:"outcome" validate:"gte=0"`
	Tag               []string  `json:"tag" validate:"omitempty,dive,uuid"`
	Merchant          *string   `json:"merchant" validate:"omitempty,uuid"`
	Payee             *string   `json:"payee"`
	Comment           *string   `json:"comment"`
	Date              string    `json:"date" validate:"required"`
	Reminder          string    `json:"reminder" validate:"required,uuid"`
	State             string    `json:"state" validate:"required,oneof=planned processed deleted"`
	Notify            bool      `json:"notify"`
}

// Transaction is a money movement: income, outcome or transfer depending
// on which side carries a non-zero amount.
type Transaction struct {
	ID                  string    `json:"id" validate:"required,uuid"`
	Changed             Timestamp `json:"changed" validate:"required"`
	Created             Timestamp `json:"created" validate:"required"`
	User                int       `json:"user" validate:"required"`
	Deleted             bool      `json:"deleted"`
	IncomeInstrument    int       `json:"incomeInstrument"`
	IncomeAccount       string    `json:"incomeAccount" validate:"required"`
	Income              float64   `json:"income" validate:"gte=0"`
	OutcomeInstrument   int       `json:"outcomeInstrument"`
	OutcomeAccount      string    `json:"outcomeAccount" validate:"required"`
	Outcome             float64   `json:"outcome" validate:"gte=0"`
	Tag                 []string  `json:"tag" validate:"omitempty,dive,uuid"`
	Merchant            *string   `json:"merchant" validate:"omitempty,uuid"`
	Payee               *string   `json:"payee"`
	OriginalPayee       *string   `json:"originalPayee"`
	Comment             *string   `json:"comment"`
	Date                string    `json:"date" validate:"required"`
	MCC                 *int      `json:"mcc"`
	ReminderMarker      *string   `json:"reminderMarker" validate:"omitempty,uuid"`
	OpIncome            *float64  `json:"opIncome"`
	OpIncomeInstrument  *int      `json:"opIncomeInstrument"`
	OpOutcome           *float64  `json:"opOutcome"`
	OpOutcomeInstrument *int      `json:"opOutcomeInstrument"`
	Latitude            *float64  `json:"latitude"`
	Longitude           *float64  `json:"longitude"`
}

// Budget is a per-tag monthly limit.
type Budget struct {
	ID          string    `json:"id" validate:"required"`
	Changed     Timestamp `json:"changed" validate:"required"`
	User        int       `json:"user" validate:"required"`
	Tag         []string  `json:"tag" validate:"omitempty,dive,uuid"`
	Date        string    `json:"date" validate:"required"`
	Income      float64   `json:"income" validate:"gte=0"`
	IncomeLock  bool      `json:"incomeLock"`
	Outcome     float64   `json:"outcome" validate:"gte=0"`
	OutcomeLock bool      `json:"outcomeLock"`
}

// Deletion asks the server to remove an entity, or reports that it was
// removed server-side.
type Deletion struct {
	ID     string `json:"id" validate:"required"`
	Object string `json:"object" validate:"required"`
	User   int    `json:"user" validate:"required"`
	Stamp  int64  `json:"stamp"`
}

// NewTransaction builds a transaction skeleton with a fresh UUID, today's
// date and both timestamps set to now. The caller fills in amounts and
// references before sending it in a diff.
func NewTransaction(user int, incomeAccount, outcomeAccount string) *Transaction {
	now := Now()
	return &Transaction{
		ID:             uuid.NewString(),
		Changed:        now,
		Created:        now,
		User:           user,
		IncomeAccount:  incomeAccount,
		OutcomeAccount: outcomeAccount,
		Date:           now.Format("2006-01-02"),
	}
}
