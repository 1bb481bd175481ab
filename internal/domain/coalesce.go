package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// StrFromPtr returns *p, or an empty string for nil.
func StrFromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
