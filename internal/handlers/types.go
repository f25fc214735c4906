package handlers

// CreateShortLinkRequest is the request for shortening a URL. The body is
// optional so that a missing or empty longUrl is reported as "URL is required".
type CreateShortLinkRequest struct {
	Body *struct {
		_       struct{} `additionalProperties:"true"`
		LongURL string   `doc:"The URL to shorten. A missing scheme defaults to https." example:"https://example.com/very/long/path" json:"longUrl" required:"false"`
	}
}

// CreateShortLinkResponse is the response for a successfully created short link.
type CreateShortLinkResponse struct {
	Location string `doc:"The short URL" header:"Location"`
	Body     struct {
		ShortURL string `doc:"The full short URL"            example:"http://localhost:8888/Ab3Xy9Q"      json:"shortUrl"`
		ShortID  string `doc:"The short identifier"          example:"Ab3Xy9Q"                            json:"shortId"`
		LongURL  string `doc:"The normalized destination URL" example:"https://example.com/very/long/path" json:"longUrl"`
	}
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	ShortID string `doc:"The short identifier" example:"Ab3Xy9Q" path:"shortId"`
}

// RedirectResponse is a permanent redirect to the long URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The destination URL" header:"Location"`
}
