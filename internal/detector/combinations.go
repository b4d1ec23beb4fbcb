package detector

import (
	"credmask/internal/dom"
)

// Combination pairs a username field with the password field following it.
// Password is nil only for a standalone username in single-input mode.
type Combination struct {
	Username       *dom.Node
	Password       *dom.Node
	PasswordInputs []*dom.Node
	// TOTP is reserved and always nil for now.
	TOTP *dom.Node
	Form *dom.Node
}

type combinationKey struct {
	username, password, totp, form dom.NodeID
}

func idOf(n *dom.Node) dom.NodeID {
	if n == nil {
		return 0
	}

	return n.ID
}

func (c Combination) key() combinationKey {
	return combinationKey{
		username: idOf(c.Username),
		password: idOf(c.Password),
		totp:     idOf(c.TOTP),
		form:     idOf(c.Form),
	}
}

// Same reports whether both combinations pair the same username, password,
// totp and form fields.
func (c Combination) Same(other Combination) bool {
	return c.key() == other.key()
}

// GetAllCombinations pairs every password field with the field immediately
// before it. A password with no such field gets a nil username.
func GetAllCombinations(fields []*dom.Node, singleInput bool) []Combination {
	var (
		combinations  []Combination
		usernameField *dom.Node
	)

	for _, field := range fields {
		if field == nil {
			continue
		}

		if field.InputType == "password" {
			var username *dom.Node
			if usernameField != nil && usernameField.Size >= 1 {
				username = usernameField
			}

			combinations = append(combinations, Combination{
				Username:       username,
				Password:       field,
				PasswordInputs: []*dom.Node{field},
				Form:           field.Form,
			})

			usernameField = nil

			continue
		}

		usernameField = field
	}

	if singleInput && len(combinations) == 0 && usernameField != nil {
		combinations = append(combinations, Combination{
			Username:       usernameField,
			PasswordInputs: []*dom.Node{},
			Form:           usernameField.Form,
		})
	}

	return combinations
}
