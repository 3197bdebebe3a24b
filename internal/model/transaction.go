package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the card-settlement dump. DocIDT is the natural
// key; everything else is nullable because the upstream switch omits fields
// freely. Money columns carry 2 fractional digits, FX rates 6.
type Transaction struct {
	InstitutionBranchCode *int64           `gorm:"column:institution_branch_code" json:"institution_branch_code"`
	BankingDate           *time.Time       `gorm:"column:banking_date" json:"banking_date"`
	ContractNumber        *string          `gorm:"column:contract_number;size:255" json:"contract_number"`
	PAN                   *string          `gorm:"column:pan;size:255" json:"pan"`
	DocIDT                string           `gorm:"column:doc_idt;primaryKey;size:255" json:"doc_idt"`
	ServiceClass          *string          `gorm:"column:service_class;size:1" json:"service_class"`
	Amount                *decimal.Decimal `gorm:"column:amount;type:numeric(18,2)" json:"amount"`
	TxnCode               *string          `gorm:"column:txn_code;size:255" json:"txn_code"`
	TxnName               *string          `gorm:"column:txn_name;size:255" json:"txn_name"`
	TransAmount           *decimal.Decimal `gorm:"column:trans_amount;type:numeric(18,2)" json:"trans_amount"`
	TransCurrency         *int64           `gorm:"column:trans_currency" json:"trans_currency"`
	TransDate             *time.Time       `gorm:"column:trans_date" json:"trans_date"`
	EffectiveDate         *time.Time       `gorm:"column:effective_date" json:"effective_date"`
	SettlementDate        *time.Time       `gorm:"column:settlement_date" json:"settlement_date"`
	PreviousDocIDT        *string          `gorm:"column:previous_doc_idt;size:255" json:"previous_doc_idt"`
	CorrectedDocIDT       *string          `gorm:"column:corrected_doc_idt;size:255" json:"corrected_doc_idt"`
	CorrectionType        *string          `gorm:"column:correction_type;size:255" json:"correction_type"`
	TransPaymentScheme    *string          `gorm:"column:trans_payment_scheme;size:255" json:"trans_payment_scheme"`
	AuthCode              *string          `gorm:"column:auth_code;size:255" json:"auth_code"`
	TransCountryCode      *string          `gorm:"column:trans_country_code;size:255" json:"trans_country_code"`
	TransCity             *string          `gorm:"column:trans_city;size:255" json:"trans_city"`
	SettlCurrency         *int64           `gorm:"column:settl_currency" json:"settl_currency"`
	SettlAmount           *decimal.Decimal `gorm:"column:settl_amount;type:numeric(18,2)" json:"settl_amount"`
	Direction             *string          `gorm:"column:direction;size:255" json:"direction"`
	LocalAmount           *decimal.Decimal `gorm:"column:local_amount;type:numeric(18,2)" json:"local_amount"`
	TransReason           *string          `gorm:"column:trans_reason;size:255" json:"trans_reason"`
	TransDetails          *string          `gorm:"column:trans_details;type:text" json:"trans_details"`
	TransRRN              *string          `gorm:"column:trans_rrn;size:255" json:"trans_rrn"`
	TransARN              *string          `gorm:"column:trans_arn;size:255" json:"trans_arn"`
	TransResponseCode     *string          `gorm:"column:trans_response_code;size:255" json:"trans_response_code"`
	TransSRN              *string          `gorm:"column:trans_srn;size:255" json:"trans_srn"`
	TransMCC              *int64           `gorm:"column:trans_mcc" json:"trans_mcc"`
	SourceChannel         *string          `gorm:"column:source_channel;size:255" json:"source_channel"`
	TargetChannel         *string          `gorm:"column:target_channel;size:255" json:"target_channel"`
	Merchant              *string          `gorm:"column:merchant;size:255" json:"merchant"`
	PostingStatus         *string          `gorm:"column:posting_status;size:255" json:"posting_status"`
	TransInfo             *string          `gorm:"column:trans_info;type:text" json:"trans_info"`
	SourceOnUsFlag        *string          `gorm:"column:source_on_us_flag;size:1" json:"source_on_us_flag"`
	TargetOnUsFlag        *string          `gorm:"column:target_on_us_flag;size:1" json:"target_on_us_flag"`
	SourceNumber          *string          `gorm:"column:source_number;size:255" json:"source_number"`
	TargetNumber          *string          `gorm:"column:target_number;size:255" json:"target_number"`
	OperTypeAddInfo       *string          `gorm:"column:oper_type_add_info;type:text" json:"oper_type_add_info"`
	ConditionList         *string          `gorm:"column:condition_list;type:text" json:"condition_list"`
	TransactionTypeName   *string          `gorm:"column:transaction_type_name;size:255" json:"transaction_type_name"`
	TransactionTypeCode   *string          `gorm:"column:transaction_type_code;size:255" json:"transaction_type_code"`
	RequestCategoryName   *string          `gorm:"column:request_category_name;size:255" json:"request_category_name"`
	ServiceClassName      *string          `gorm:"column:service_class_name;size:255" json:"service_class_name"`
	PaymentScheme         *string          `gorm:"column:payment_scheme;size:255" json:"payment_scheme"`
	PaymentSchemeCode     *string          `gorm:"column:payment_scheme_code;size:255" json:"payment_scheme_code"`
	CardBrandName         *string          `gorm:"column:card_brand_name;size:255" json:"card_brand_name"`
	CardBrandCode         *string          `gorm:"column:card_brand_code;size:255" json:"card_brand_code"`
	AccountTypeName       *string          `gorm:"column:account_type_name;size:255" json:"account_type_name"`
	AccountCurrency       *int64           `gorm:"column:account_currency" json:"account_currency"`
	AccountNumber         *string          `gorm:"column:account_number;size:255" json:"account_number"`
	AccountName           *string          `gorm:"column:account_name;size:255" json:"account_name"`
	GLNumber              *string          `gorm:"column:gl_number;size:255" json:"gl_number"`
	AccountDateOpen       *time.Time       `gorm:"column:account_date_open" json:"account_date_open"`
	AccountDateClose      *time.Time       `gorm:"column:account_date_close" json:"account_date_close"`
	SettlementFXRate      *decimal.Decimal `gorm:"column:settlement_fx_rate;type:numeric(18,6)" json:"settlement_fx_rate"`
	TransactionFXRate     *decimal.Decimal `gorm:"column:transaction_fx_rate;type:numeric(18,6)" json:"transaction_fx_rate"`
	RBSNumber             *string          `gorm:"column:rbs_number;size:255" json:"rbs_number"`
	TransCashAmount       *decimal.Decimal `gorm:"column:trans_cash_amount;type:numeric(18,2)" json:"trans_cash_amount"`
	TransCashCurr         *int64           `gorm:"column:trans_cash_curr" json:"trans_cash_curr"`
	SettlCashAmount       *decimal.Decimal `gorm:"column:settl_cash_amount;type:numeric(18,2)" json:"settl_cash_amount"`
	SettlCashCurr         *int64           `gorm:"column:settl_cash_curr" json:"settl_cash_curr"`
	BaseCurrency          *int64           `gorm:"column:base_currency" json:"base_currency"`
	ParentContractNumber  *string          `gorm:"column:parent_contract_number;size:255" json:"parent_contract_number"`
}

func (Transaction) TableName() string { return "transactions" }
