package numfmt

import "strings"

// CNPJ formats a 14-digit CNPJ as 00.000.000/0000-00.
// Anything else is returned unchanged.
func CNPJ(s string) string {
	if !allDigits(s, 14) {
		return s
	}
	return s[0:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:14]
}

// CPF formats an 11-digit CPF as 000.000.000-00.
func CPF(s string) string {
	if !allDigits(s, 11) {
		return s
	}
	return s[0:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:11]
}

// TaxID applies the CNPJ or CPF mask based on length.
func TaxID(s string) string {
	switch len(s) {
	case 14:
		return CNPJ(s)
	case 11:
		return CPF(s)
	}
	return s
}

// CEP formats an 8-digit postal code as 00000-000.
func CEP(s string) string {
	if !allDigits(s, 8) {
		return s
	}
	return s[0:5] + "-" + s[5:8]
}

// AccessKey splits a 44-digit key into space-separated groups of four,
// the way it is printed under the DANFE barcode.
func AccessKey(s string) string {
	if !allDigits(s, 44) {
		return s
	}
	groups := make([]string, 0, 11)
	for i := 0; i < len(s); i += 4 {
		groups = append(groups, s[i:i+4])
	}
	return strings.Join(groups, " ")
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
