package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeBlockNumberMismatch = "BLOCK_NUMBER_MISMATCH"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeBalanceOverflow     = "BALANCE_OVERFLOW"
	CodeClaimAlreadyExists  = "CLAIM_ALREADY_EXISTS"
	CodeClaimNotExists      = "CLAIM_NOT_EXISTS"
	CodeNotClaimOwner       = "NOT_CLAIM_OWNER"
	CodeUnroutableCall      = "UNROUTABLE_CALL"
)

var enUSMessages = map[Code]string{
	CodeBlockNumberMismatch: "Block number mismatch: expected {{.Expected}}, got {{.Got}}.",
	CodeInsufficientBalance: "Insufficient balance: {{.Account}} has {{.Balance}}, needs {{.Amount}}.",
	CodeBalanceOverflow:     "Balance overflow crediting {{.Account}}.",
	CodeClaimAlreadyExists:  "This content is already claimed.",
	CodeClaimNotExists:      "Claim does not exist.",
	CodeNotClaimOwner:       "This content is owned by someone else.",
	CodeUnroutableCall:      "No pallet handles call {{.Call}}.",
}
