package currency

// Pairs defines a list of pairs
type Pairs []Pair

// Contains checks to see if a specified pair exists inside a currency pair
// array. exact also matches the delimiter.
func (p Pairs) Contains(check Pair, exact bool) bool {
	for i := range p {
		if p[i].Equal(check) && (!exact || p[i].Delimiter == check.Delimiter) {
			return true
		}
	}
	return false
}

// Strings returns a slice of the formatted pairs
func (p Pairs) Strings() []string {
	list := make([]string, len(p))
	for i := range p {
		list[i] = p[i].String()
	}
	return list
}

// Remove returns a new slice without the pair
func (p Pairs) Remove(pair Pair) Pairs {
	pairs := make(Pairs, 0, len(p))
	for i := range p {
		if !p[i].Equal(pair) {
			pairs = append(pairs, p[i])
		}
	}
	return pairs
}

// Format returns every pair with the supplied formatting
func (p Pairs) Format(delimiter string, uppercase bool) Pairs {
	pairs := make(Pairs, len(p))
	for i := range p {
		pairs[i] = p[i].Format(delimiter, uppercase)
	}
	return pairs
}
