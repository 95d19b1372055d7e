package domain

// ReverseDomainName converts between the human-readable domain name and its
// storage form by reversing the character order. Storing the reversed form turns
// "ends with suffix" lookups into prefix scans that a sorted index can serve.
// The transform is its own inverse, so encoding and decoding share this one
// implementation: ReverseDomainName(ReverseDomainName(s)) == s for all s.
func ReverseDomainName(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
