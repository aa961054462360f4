// Package microsoft provides OAuth2 and HTTP support for Microsoft Graph API.
//
// This package provides:
//   - OAuth2 endpoint and scope configuration for the Microsoft identity platform
//   - Rate limiting for Microsoft Graph API requests
//   - Error handling for Microsoft Graph API responses
//   - Profile lookup used to identify the signed-in account
//
// Microsoft Graph endpoints use the "common" tenant by default, allowing both
// personal Microsoft accounts and Azure AD accounts.
//
// # OAuth2 Flow
//
// The CLI is a public client and signs in with the device-code flow:
//   - Device code URL: https://login.microsoftonline.com/common/oauth2/v2.0/devicecode
//   - Token URL: https://login.microsoftonline.com/common/oauth2/v2.0/token
//
// The "offline_access" scope is required for refresh tokens.
//
// # Optimistic Concurrency
//
// OneNote page content is patched with an If-Match precondition. A 412
// Precondition Failed response means the page changed since its ETag was read;
// it is mapped to ErrPreconditionFailed and never retried here.
//
// # Rate Limits
//
// OneNote allows roughly 120 requests per minute per user and app.
// This package implements conservative rate limiting to avoid hitting quotas.
package microsoft
