// Package connect implements the OAuth connect flow for the supported social
// platforms: building authorization URLs with CSRF state (and PKCE where the
// provider mandates it), exchanging authorization codes for tokens, fetching
// normalized profiles and sub-pages, and persisting connected accounts.
//
// # Architecture
//
// Each platform is a ProviderAdapter encapsulating endpoint URLs, scope-joining
// conventions and profile endpoints. The Service orchestrates the flow and owns
// the ordering guarantees: state is consumed before any token-endpoint call,
// and the exchange sequence (exchange -> profile -> pages -> persist) is
// strictly sequential because each step depends on the previous one's output.
//
// # Usage
//
//	var fbCfg connect.FacebookConfig
//	config.MustLoad(&fbCfg)
//
//	svc := connect.NewService(states, accounts, []connect.ProviderAdapter{
//		connect.NewFacebookAdapter(fbCfg),
//		connect.NewTwitterAdapter(twCfg),
//	}, connect.WithTokenCache(cache), connect.WithLogger(log))
//
//	url, err := svc.AuthURL(ctx, social.PlatformTwitter)
//	// redirect the user to url; later, on callback:
//	resp, err := svc.Exchange(ctx, social.PlatformTwitter, params.Code, params.State)
package connect
