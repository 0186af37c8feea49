// Package secure keeps certificate material encrypted in memory.
//
// Decoded certificate bytes are sealed into a memguard enclave as soon as
// they have been parsed. The enclave is encrypted at rest, mlocked where the
// platform allows it, and its plaintext view is wiped on Destroy.
//
//	buf, err := secure.NewSecureBuffer(raw) // raw is wiped
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	use(locked.Bytes())
//
// Call memguard.Purge (via Purge in this package) before the process exits.
package secure
