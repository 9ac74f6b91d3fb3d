package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"melodex/internal/domain"
	"melodex/internal/service"
)

// OAuthProviderConfig contains the credentials for one OAuth provider.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuthProviders holds the configured login providers.
type OAuthProviders struct {
	Google OAuthProviderConfig
	GitHub OAuthProviderConfig
}

const oauthStateCookie = "oauth_state"

func (h *Handler) providerConfig(name string) (*oauth2.Config, error) {
	switch name {
	case "google":
		if h.oauthCfg.Google.ClientID == "" {
			return nil, fmt.Errorf("google oauth is not configured")
		}
		return &oauth2.Config{
			ClientID:     h.oauthCfg.Google.ClientID,
			ClientSecret: h.oauthCfg.Google.ClientSecret,
			RedirectURL:  h.oauthCfg.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}, nil
	case "github":
		if h.oauthCfg.GitHub.ClientID == "" {
			return nil, fmt.Errorf("github oauth is not configured")
		}
		return &oauth2.Config{
			ClientID:     h.oauthCfg.GitHub.ClientID,
			ClientSecret: h.oauthCfg.GitHub.ClientSecret,
			RedirectURL:  h.oauthCfg.GitHub.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

func (h *Handler) oauthLogin(c *gin.Context) {
	conf, err := h.providerConfig(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate state"})
		return
	}
	state := hex.EncodeToString(buf)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, conf.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	provider := c.Param("provider")
	conf, err := h.providerConfig(provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		writeError(c, domain.AuthFailuref("oauth state mismatch"))
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ctx := c.Request.Context()
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		writeError(c, domain.AuthFailuref("exchange authorization code: %v", err))
		return
	}

	var claims service.ProviderClaims
	switch provider {
	case "google":
		claims, err = googleClaims(c, conf, token)
	case "github":
		claims, err = githubClaims(c, conf, token)
	}
	if err != nil {
		writeError(c, domain.AuthFailuref("fetch provider identity: %v", err))
		return
	}

	user, err := h.oauth.Resolve(ctx, claims)
	if err != nil {
		writeError(c, err)
		return
	}

	jwtToken, err := issueToken(h.auth, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": jwtToken,
		"user":  userToResponse(*user),
	})
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func googleClaims(c *gin.Context, conf *oauth2.Config, token *oauth2.Token) (service.ProviderClaims, error) {
	var info googleUserInfo
	if err := fetchJSON(c, conf, token, "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return service.ProviderClaims{}, err
	}
	return service.ProviderClaims{
		SubjectID:   "google:" + info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}

type githubUserInfo struct {
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

func githubClaims(c *gin.Context, conf *oauth2.Config, token *oauth2.Token) (service.ProviderClaims, error) {
	var info githubUserInfo
	if err := fetchJSON(c, conf, token, "https://api.github.com/user", &info); err != nil {
		return service.ProviderClaims{}, err
	}

	// the profile email is empty when the user keeps it private
	if info.Email == "" {
		var emails []githubEmail
		if err := fetchJSON(c, conf, token, "https://api.github.com/user/emails", &emails); err != nil {
			return service.ProviderClaims{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				info.Email = e.Email
				break
			}
		}
		if info.Email == "" {
			for _, e := range emails {
				if e.Verified {
					info.Email = e.Email
					break
				}
			}
		}
	}
	if info.Email == "" {
		return service.ProviderClaims{}, fmt.Errorf("github account has no verified email")
	}

	display := info.Name
	if display == "" {
		display = info.Login
	}
	return service.ProviderClaims{
		SubjectID:   fmt.Sprintf("github:%d", info.ID),
		Email:       info.Email,
		DisplayName: display,
	}, nil
}

func fetchJSON(c *gin.Context, conf *oauth2.Config, token *oauth2.Token, url string, out any) error {
	ctx := c.Request.Context()
	client := conf.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("provider API error: %s - %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
