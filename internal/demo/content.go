package demo

const (
	tripContent = `SUMMER SCHOOL TRIP: SCIENCE MUSEUM

Dear Parents,
We are excited to go on a trip to the Science Museum in the city center. 
The bus will leave from the school gate on Monday, June 1st at 8:00 AM. 
We will return to the school by 3:30 PM on the same day.

WHAT TO BRING:
- The cost of the trip is $15 per student.
- Please bring a packed lunch from home. The museum cafe is currently closed.
- Students must wear their blue school uniform so we can stay together.

GOAL:
The goal is to learn about space and the planets. This trip is part of our 
science class. We hope every student can join us for this fun day of learning!`

	teacherContent = `TRIP UPDATE: WATER PARK ADVENTURE

Hi Class,
Here is the final plan for our big trip to the Water Park at the beach! 
The train leaves from the station on Wednesday, June 3rd at 10:00 AM. 
We will get back to the school very late, around 7:00 PM.

COST AND FOOD:
- The price is $30 for each person. This includes your ticket and a locker.
- You do not need to bring food. We will all eat lunch together at the 
park restaurant. The meal is included in the price.

CLOTHING:
- Please wear your favorite swimming clothes and a bright t-shirt.
- Do not wear your school uniform because it will get wet and messy.`

	campContent = `WELCOME TO THE 5-DAY ART CAMP

CAMP OVERVIEW:
This camp lasts for five full days, from Monday until Friday. 
We have a lot of fun activities planned for you!

WEEKLY SCHEDULE:
Day 1: Painting with water colors in the garden.
Day 2: Making bowls out of wet clay.
Day 3: Drawing animals with colored pencils.
(This is the end of our activity list for the week).

CAMP RULES:
- You must always wear a sun hat when you are outside.
- No candy, soda, or sugary snacks are allowed in the camp building.

THE CAMP SHOP:
- The shop is open every afternoon for students to buy snacks.
- Please bring $5 every day so you can buy candy and soda.
- Hats are not allowed at camp.

GRADING AND PRIZES:
At the end of the week, everyone gets a "Gold Star" for finishing. 
There are no tests at this camp. We just want you to have fun.

FINAL TEST DETAILS:
- The final exam is on Friday afternoon in the main hall.
- You must pass this test to get your "Gold Star."`

	libraryContent = `WELCOME TO THE CENTRAL CITY LIBRARY

GENERAL INFORMATION:
The Central City Library is a place for everyone to read, study, and learn. 
We are open 6 days a week, from Monday to Saturday. Please note that the 
library is always closed on Sundays to allow for deep cleaning and shelf organizing.

OPERATING HOURS:
- Monday to Friday: 9:00 AM to 8:00 PM
- Saturday: 10:00 AM to 4:00 PM
- Sunday: Closed

BORROWING RULES:
Every member can borrow up to 10 books at one time. Books must be returned 
within 14 days. If you need more time, you can renew your books once through 
our website or by visiting the front desk.

FACILITY RULES:
1. Keep your voice at a whisper to respect other readers.
2. Cell phones must be set to silent mode at all times.
3. No food or drinks are allowed near the computers or the rare book section.
4. Bottled water is permitted only in the main seating area.

THE CHILDREN'S CORNER:
The Children's Corner is located on the first floor. It is a special area 
designed for kids aged 3 to 12. We have over 5,000 picture books and 
educational games available.

WEEKLY CHILDREN'S EVENTS:
- Story Time: Tuesday mornings at 10:30 AM.
- Puppet Show: Thursday afternoons at 2:00 PM.
- Lego Club: Saturday mornings at 11:00 AM.

STUDY ROOMS:
We offer 8 private study rooms for group work. You can book a study room 
for a maximum of 2 hours per day. Reservations can be made up to one week 
in advance at the information desk.

MEMBERSHIP FEES:
Membership is completely free for all city residents. You just need to show 
a valid ID and proof of address to get your library card. Non-residents can 
join for a small fee of $20 per year.`
)
