package github

import (
	"strconv"

	"github.com/bookmarkd/bookmarkd/auth/social"
)

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func mapProfile(user *githubUser, emails []string) *social.Profile {
	if user == nil {
		return nil
	}

	if len(emails) == 0 && user.Email != "" {
		emails = []string{user.Email}
	}

	return &social.Profile{
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Provider:       "github",
		Username:       user.Login,
		Emails:         emails,
	}
}
