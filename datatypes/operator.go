package datatypes

// Operator is a binary operator of the expression language.
type Operator int

const (
	Eq Operator = iota
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	Plus
	Minus
	Multiply
	Divide
	And
	Or
)

var operatorSymbols = map[Operator]string{
	Eq:       "=",
	NotEq:    "!=",
	Lt:       "<",
	LtEq:     "<=",
	Gt:       ">",
	GtEq:     ">=",
	Plus:     "+",
	Minus:    "-",
	Multiply: "*",
	Divide:   "/",
	And:      "AND",
	Or:       "OR",
}

func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	return "UNKNOWN"
}

func (op Operator) IsComparison() bool {
	switch op {
	case Eq, NotEq, Lt, LtEq, Gt, GtEq:
		return true
	}
	return false
}

func (op Operator) IsArithmetic() bool {
	switch op {
	case Plus, Minus, Multiply, Divide:
		return true
	}
	return false
}

func (op Operator) IsLogical() bool {
	return op == And || op == Or
}
