// Package internal contains private implementation details for the sitepub module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - awsapi: Interfaces over the AWS SDK clients, for mocking
//   - validation: Input validation logic
//   - testutil: Shared mocks and LocalStack helpers for tests
package internal
