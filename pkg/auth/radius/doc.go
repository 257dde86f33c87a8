// Package radius provides the RADIUS PrimaryProvider implementation.
//
// The Provider type implements auth.PrimaryProvider and:
//   - Sends one Access-Request per login (User-Name, User-Password, NAS-Identifier)
//   - Maps Access-Accept to a pass and every other result to a fail
//   - Abstains when no usable username and password were supplied
//   - Declines every authentication data change and account creation
//
// Packet encoding, User-Password hiding and reply authentication are handled
// by layeh.com/radius. The exchange itself goes through the Client interface
// so tests can substitute a fake server.
//
// Configuration is defined in pkg/config.RadiusConfig. The provider never
// rejects a configuration: problems are logged when it is built and
// authentication then fails at exchange time.
//
// References:
//   - RFC 2865: Remote Authentication Dial In User Service (RADIUS)
package radius
