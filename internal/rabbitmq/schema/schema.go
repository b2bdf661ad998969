package schema

import (
	"encoding/json"
	"fmt"
)

// CodeNotification is the message relayed to the mailer.
type CodeNotification struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Purpose  string `json:"purpose"`
	Code     string `json:"code"`
	CodeHash string `json:"codeHash"`
}

func (n *CodeNotification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *CodeNotification) Unmarshal(data []byte) error {
	if err := json.Unmarshal(data, n); err != nil {
		return err
	}
	if n.Email == "" || n.Code == "" {
		return fmt.Errorf("incomplete code notification for user %d", n.UserID)
	}
	return nil
}
