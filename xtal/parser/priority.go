package parser

// Priority orders the expression bands from loosest to tightest binding.
type Priority int

const (
	PriLowest Priority = iota + 1
	PriTernary
	PriOrOr
	PriAndAnd
	PriBitwise
	PriCompare
	PriShift
	PriAdd
	PriMul
	PriUnary
	PriCall
	PriMember
	PriOnce

	// PriMax exceeds every band. It stands for "whitespace here" when
	// comparing priorities.
	PriMax
)

// spacing maps an adjacency flag onto the priority offset used by
// comparePriority.
func spacing(space bool) Priority {
	if space {
		return PriMax
	}
	return 0
}

// comparePriority decides whether an operator of band op continues an
// expression being parsed at band pri. callerSpace is the spacing to the
// right of the operator that started the current operand, opSpace the
// spacing to the left of the candidate operator. The priority answer and
// the answer implied by the spacing must agree.
func comparePriority(pri, op, callerSpace, opSpace Priority) (binds, consistent bool) {
	one := pri < op
	two := pri-callerSpace < op-opSpace
	return one, one == two
}

type binaryOp struct {
	pri   Priority
	kind  NodeKind
	flags int
}

var binaryOps = map[TokenKind]binaryOp{
	TokenOrOr:   {PriOrOr, KindOrOr, 0},
	TokenAndAnd: {PriAndAnd, KindAndAnd, 0},

	TokenBitOr:  {PriBitwise, KindOr, 0},
	TokenBitXor: {PriBitwise, KindXor, 0},
	TokenBitAnd: {PriBitwise, KindAnd, 0},

	TokenEQ:         {PriCompare, KindEq, 0},
	TokenNE:         {PriCompare, KindNe, 0},
	TokenRawEQ:      {PriCompare, KindRawEq, 0},
	TokenRawNE:      {PriCompare, KindRawNe, 0},
	TokenLT:         {PriCompare, KindLt, 0},
	TokenLE:         {PriCompare, KindLe, 0},
	TokenGT:         {PriCompare, KindGt, 0},
	TokenGE:         {PriCompare, KindGe, 0},
	TokenIs:         {PriCompare, KindIs, 0},
	TokenNotIs:      {PriCompare, KindNotIs, 0},
	TokenIn:         {PriCompare, KindIn, 0},
	TokenNotIn:      {PriCompare, KindNotIn, 0},
	TokenRange:      {PriCompare, KindRange, RangeClosed},
	TokenRangeRight: {PriCompare, KindRange, RangeRightOpen},
	TokenRangeLeft:  {PriCompare, KindRange, RangeLeftOpen},
	TokenRangeOpen:  {PriCompare, KindRange, RangeOpen},

	TokenShl:  {PriShift, KindShl, 0},
	TokenShr:  {PriShift, KindShr, 0},
	TokenUShr: {PriShift, KindUShr, 0},

	TokenPlus:  {PriAdd, KindAdd, 0},
	TokenMinus: {PriAdd, KindSub, 0},
	TokenTilde: {PriAdd, KindCat, 0},

	TokenStar:    {PriMul, KindMul, 0},
	TokenSlash:   {PriMul, KindDiv, 0},
	TokenPercent: {PriMul, KindMod, 0},
}

var prefixOps = map[TokenKind]NodeKind{
	TokenPlus:  KindPos,
	TokenMinus: KindNeg,
	TokenTilde: KindCom,
	TokenNot:   KindNot,
}

var compoundAssignOps = map[TokenKind]NodeKind{
	TokenPlusAssign:    KindAddAssign,
	TokenMinusAssign:   KindSubAssign,
	TokenTildeAssign:   KindCatAssign,
	TokenStarAssign:    KindMulAssign,
	TokenSlashAssign:   KindDivAssign,
	TokenPercentAssign: KindModAssign,
	TokenAndAssign:     KindAndAssign,
	TokenOrAssign:      KindOrAssign,
	TokenXorAssign:     KindXorAssign,
	TokenShlAssign:     KindShlAssign,
	TokenShrAssign:     KindShrAssign,
	TokenUShrAssign:    KindUShrAssign,
}
