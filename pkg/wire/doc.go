// Package wire defines the binary frame layouts the boards speak on
// their control port.
//
// Every request starts with a command-identifier byte; every response
// echoes that byte followed by a status byte. Multi-byte numeric fields
// are big-endian on the wire, with one exception: the 32-bit cells of
// the SPI command (the two word counts and the payload words) travel
// byte-mirrored, see MirrorWord.
//
// # Frame Layouts
//
//	Register write   req: cmd(1) addr(1) value(2)        resp: cmd(1) status(1) pad(2)
//	Register read    req: cmd(1) addr(1) pad(2)          resp: cmd(1) status(1) value(2)
//	Mailbox int      req: cmd(1) pad(3)                  resp: cmd(1) status(1) pad(2)
//	Settings query   req: cmd(1) pad(3)                  resp: 36 bytes, see Settings
//	SPI transfer     req: cmd(1) device(1) wordlen(1) release(1)
//	                      writeCount(4) readCount(4) writeWords(4xN)
//	                 resp: cmd(1) status(1) pad(2) readWords(4xN)
//
// Encoding never fails; parameter validation happens in the client
// before a frame is built. Decoding checks sizes and the echoed command
// byte but leaves the status check to the caller, which needs the raw
// status value for its error reporting either way.
package wire
