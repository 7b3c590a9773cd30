// Package middleware provides the HTTP middleware stack for the console API.
//
//   - CORS: cross-origin access for the dashboard, including WebSocket
//     upgrades, with trace and ETag headers exposed
//   - RateLimit: per-IP token buckets with idle eviction and Retry-After
//   - GlobalRateLimit: one bucket shared by every client
//
// Both limiters skip the routes named in RateLimitConfig.Exempt.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.CORSForOrigins(cfg.Server.AllowOrigins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
