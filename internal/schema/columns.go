package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/momocard/settlement-service/internal/model"
)

type (
	tx = model.Transaction
)

// buildColumns lists every dump column in file order. This is the one place
// the record layout is written down; coercion, validation and the query
// allow-list all read it.
func buildColumns() []Column {
	return []Column{
		intCol("INSTITUTION_BRANCH_CODE", func(t *tx) **int64 { return &t.InstitutionBranchCode }),
		dateCol("BANKING_DATE", func(t *tx) **time.Time { return &t.BankingDate }),
		private(strCol("CONTRACT_NUMBER", func(t *tx) **string { return &t.ContractNumber })),
		private(strCol("PAN", func(t *tx) **string { return &t.PAN })),
		keyCol("DOC_IDT"),
		charCol("SERVICE_CLASS", func(t *tx) **string { return &t.ServiceClass }),
		moneyCol("AMOUNT", func(t *tx) **decimal.Decimal { return &t.Amount }),
		strCol("TXN_CODE", func(t *tx) **string { return &t.TxnCode }),
		strCol("TXN_NAME", func(t *tx) **string { return &t.TxnName }),
		moneyCol("TRANS_AMOUNT", func(t *tx) **decimal.Decimal { return &t.TransAmount }),
		intCol("TRANS_CURRENCY", func(t *tx) **int64 { return &t.TransCurrency }),
		dateCol("TRANS_DATE", func(t *tx) **time.Time { return &t.TransDate }),
		dateCol("EFFECTIVE_DATE", func(t *tx) **time.Time { return &t.EffectiveDate }),
		dateCol("SETTLEMENT_DATE", func(t *tx) **time.Time { return &t.SettlementDate }),
		strCol("PREVIOUS_DOC_IDT", func(t *tx) **string { return &t.PreviousDocIDT }),
		strCol("CORRECTED_DOC_IDT", func(t *tx) **string { return &t.CorrectedDocIDT }),
		strCol("CORRECTION_TYPE", func(t *tx) **string { return &t.CorrectionType }),
		strCol("TRANS_PAYMENT_SCHEME", func(t *tx) **string { return &t.TransPaymentScheme }),
		strCol("AUTH_CODE", func(t *tx) **string { return &t.AuthCode }),
		strCol("TRANS_COUNTRY_CODE", func(t *tx) **string { return &t.TransCountryCode }),
		strCol("TRANS_CITY", func(t *tx) **string { return &t.TransCity }),
		intCol("SETTL_CURRENCY", func(t *tx) **int64 { return &t.SettlCurrency }),
		moneyCol("SETTL_AMOUNT", func(t *tx) **decimal.Decimal { return &t.SettlAmount }),
		strCol("DIRECTION", func(t *tx) **string { return &t.Direction }),
		moneyCol("LOCAL_AMOUNT", func(t *tx) **decimal.Decimal { return &t.LocalAmount }),
		strCol("TRANS_REASON", func(t *tx) **string { return &t.TransReason }),
		textCol("TRANS_DETAILS", func(t *tx) **string { return &t.TransDetails }),
		strCol("TRANS_RRN", func(t *tx) **string { return &t.TransRRN }),
		strCol("TRANS_ARN", func(t *tx) **string { return &t.TransARN }),
		strCol("TRANS_RESPONSE_CODE", func(t *tx) **string { return &t.TransResponseCode }),
		strCol("TRANS_SRN", func(t *tx) **string { return &t.TransSRN }),
		intCol("TRANS_MCC", func(t *tx) **int64 { return &t.TransMCC }),
		strCol("SOURCE_CHANNEL", func(t *tx) **string { return &t.SourceChannel }),
		strCol("TARGET_CHANNEL", func(t *tx) **string { return &t.TargetChannel }),
		strCol("MERCHANT", func(t *tx) **string { return &t.Merchant }),
		strCol("POSTING_STATUS", func(t *tx) **string { return &t.PostingStatus }),
		textCol("TRANS_INFO", func(t *tx) **string { return &t.TransInfo }),
		charCol("SOURCE_ON_US_FLAG", func(t *tx) **string { return &t.SourceOnUsFlag }),
		charCol("TARGET_ON_US_FLAG", func(t *tx) **string { return &t.TargetOnUsFlag }),
		strCol("SOURCE_NUMBER", func(t *tx) **string { return &t.SourceNumber }),
		strCol("TARGET_NUMBER", func(t *tx) **string { return &t.TargetNumber }),
		textCol("OPER_TYPE_ADD_INFO", func(t *tx) **string { return &t.OperTypeAddInfo }),
		listCol("CONDITION_LIST", func(t *tx) **string { return &t.ConditionList }),
		strCol("TRANSACTION_TYPE_NAME", func(t *tx) **string { return &t.TransactionTypeName }),
		strCol("TRANSACTION_TYPE_CODE", func(t *tx) **string { return &t.TransactionTypeCode }),
		strCol("REQUEST_CATEGORY_NAME", func(t *tx) **string { return &t.RequestCategoryName }),
		strCol("SERVICE_CLASS_NAME", func(t *tx) **string { return &t.ServiceClassName }),
		strCol("PAYMENT_SCHEME", func(t *tx) **string { return &t.PaymentScheme }),
		strCol("PAYMENT_SCHEME_CODE", func(t *tx) **string { return &t.PaymentSchemeCode }),
		strCol("CARD_BRAND_NAME", func(t *tx) **string { return &t.CardBrandName }),
		strCol("CARD_BRAND_CODE", func(t *tx) **string { return &t.CardBrandCode }),
		strCol("ACCOUNT_TYPE_NAME", func(t *tx) **string { return &t.AccountTypeName }),
		intCol("ACCOUNT_CURRENCY", func(t *tx) **int64 { return &t.AccountCurrency }),
		strCol("ACCOUNT_NUMBER", func(t *tx) **string { return &t.AccountNumber }),
		strCol("ACCOUNT_NAME", func(t *tx) **string { return &t.AccountName }),
		strCol("GL_NUMBER", func(t *tx) **string { return &t.GLNumber }),
		dateCol("ACCOUNT_DATE_OPEN", func(t *tx) **time.Time { return &t.AccountDateOpen }),
		sentinel(dateCol("ACCOUNT_DATE_CLOSE", func(t *tx) **time.Time { return &t.AccountDateClose })),
		rateCol("SETTLEMENT_FX_RATE", func(t *tx) **decimal.Decimal { return &t.SettlementFXRate }),
		rateCol("TRANSACTION_FX_RATE", func(t *tx) **decimal.Decimal { return &t.TransactionFXRate }),
		strCol("RBS_NUMBER", func(t *tx) **string { return &t.RBSNumber }),
		moneyCol("TRANS_CASH_AMOUNT", func(t *tx) **decimal.Decimal { return &t.TransCashAmount }),
		intCol("TRANS_CASH_CURR", func(t *tx) **int64 { return &t.TransCashCurr }),
		moneyCol("SETTL_CASH_AMOUNT", func(t *tx) **decimal.Decimal { return &t.SettlCashAmount }),
		intCol("SETTL_CASH_CURR", func(t *tx) **int64 { return &t.SettlCashCurr }),
		intCol("BASE_CURRENCY", func(t *tx) **int64 { return &t.BaseCurrency }),
		strCol("PARENT_CONTRACT_NUMBER", func(t *tx) **string { return &t.ParentContractNumber }),
	}
}
