package social

import (
	"encoding/json"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
)

var twitterEndpoint = oauth2.Endpoint{
	AuthURL:   "https://twitter.com/i/oauth2/authorize",
	TokenURL:  "https://api.twitter.com/2/oauth2/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

func Facebook(clientID, clientSecret, redirectURL string) (*Provider, error) {
	return New(Config{
		Name:         "facebook",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     facebook.Endpoint,
		Scopes:       []string{"public_profile"},
		ProfileURL:   "https://graph.facebook.com/me?fields=id,name",
		Decode:       DecodeFacebook,
	})
}

func GitHub(clientID, clientSecret, redirectURL string) (*Provider, error) {
	return New(Config{
		Name:         "github",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     github.Endpoint,
		Scopes:       []string{"read:user"},
		ProfileURL:   "https://api.github.com/user",
		Decode:       DecodeGitHub,
	})
}

// Twitter uses OAuth 2.0 with PKCE; the users.read scope needs tweet.read.
func Twitter(clientID, clientSecret, redirectURL string) (*Provider, error) {
	return New(Config{
		Name:         "twitter",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     twitterEndpoint,
		Scopes:       []string{"users.read", "tweet.read"},
		ProfileURL:   "https://api.twitter.com/2/users/me",
		Decode:       DecodeTwitter,
	})
}

func Instagram(clientID, clientSecret, redirectURL string) (*Provider, error) {
	return New(Config{
		Name:         "instagram",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     endpoints.Instagram,
		Scopes:       []string{"user_profile"},
		ProfileURL:   "https://graph.instagram.com/me?fields=id,username",
		Decode:       DecodeInstagram,
	})
}

func DecodeFacebook(body []byte) (Profile, error) {
	var data struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return Profile{}, err
	}
	return Profile{ID: data.ID, DisplayName: data.Name, Email: data.Email}, nil
}

// DecodeGitHub handles GitHub's numeric account id; users without a
// public name fall back to their login.
func DecodeGitHub(body []byte) (Profile, error) {
	var data struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return Profile{}, err
	}

	p := Profile{DisplayName: data.Name, Email: data.Email}
	if data.ID != 0 {
		p.ID = strconv.FormatInt(data.ID, 10)
	}
	if p.DisplayName == "" {
		p.DisplayName = data.Login
	}
	return p, nil
}

func DecodeTwitter(body []byte) (Profile, error) {
	var data struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return Profile{}, err
	}

	p := Profile{ID: data.Data.ID, DisplayName: data.Data.Name}
	if p.DisplayName == "" {
		p.DisplayName = data.Data.Username
	}
	return p, nil
}

func DecodeInstagram(body []byte) (Profile, error) {
	var data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return Profile{}, err
	}
	return Profile{ID: data.ID, DisplayName: data.Username}, nil
}
