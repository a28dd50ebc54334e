package nfe

import (
	"strings"

	"github.com/beevik/etree"
)

// AccessKeyLength is the number of digits in an NFe access key.
const AccessKeyLength = 44

// AccessKey returns the document's 44-digit access key.
// The authorization protocol (chNFe) is preferred; otherwise the key is
// taken from the last 44 characters of the infNFe Id attribute ("NFe" + key).
// Returns false when neither source yields a valid key.
func (d *Document) AccessKey() (string, bool) {
	for _, el := range []*etree.Element{First(d.tree, PathAccessKey), First(d.tree, PathAnyKey)} {
		if el == nil {
			continue
		}
		if key := strings.TrimSpace(el.Text()); ValidAccessKey(key) {
			return key, true
		}
	}

	if inf := First(d.tree, PathInfNFe); inf != nil {
		id := strings.TrimSpace(inf.SelectAttrValue("Id", ""))
		if len(id) >= AccessKeyLength {
			if key := id[len(id)-AccessKeyLength:]; ValidAccessKey(key) {
				return key, true
			}
		}
	}

	return "", false
}

// ValidAccessKey reports whether key is exactly 44 ASCII digits.
func ValidAccessKey(key string) bool {
	if len(key) != AccessKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}
