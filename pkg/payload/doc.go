// Package payload pairs a content value with the encoder that turns it into
// bytes.
//
// A Payload is either computed, meaning it is re-encoded every time a loop
// pulls it, or reactive, meaning loops cache its encoding and refresh it only
// when the content reports a change through ChangeSource.
//
//	param := content.NewParameter("greeting", content.String, "hello !")
//	p, err := payload.New[content.Field](content.EncodeField, param)
//	if err != nil {
//	    return err
//	}
//	pl, err := loop.NewPayloadLoop(p, 3)
package payload
