package transport

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse mirrors authclient.TokenResponse.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
	Role         string `json:"role"`
}
