package exchange

import "strings"

// CanonicalSymbol — верхний регистр и обязательный суффикс USDT.
func CanonicalSymbol(symbol string) string {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return ""
	}
	if !strings.HasSuffix(sym, "USDT") {
		sym += "USDT"
	}
	return sym
}

// CandidateSpellings — варианты написания для ретрая: дешёвые токены на
// фьючерсах котируются с префиксом 1000 (1000PEPE против PEPE на споте).
func CandidateSpellings(symbol string) []string {
	sym := CanonicalSymbol(symbol)
	if sym == "" {
		return nil
	}
	base := strings.TrimSuffix(sym, "USDT")
	out := []string{sym}
	if strings.HasPrefix(base, "1000") {
		out = append(out, strings.TrimPrefix(base, "1000")+"USDT")
	} else {
		out = append(out, "1000"+base+"USDT")
	}
	return out
}
