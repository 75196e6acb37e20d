// Package corpus holds the default campus handbook that is re-ingested at
// every startup. Nothing here survives a restart; the text below is the
// single source of truth for the default session.
package corpus

// DefaultSessionID identifies the pre-seeded handbook session.
const DefaultSessionID = "campus_main"

// DefaultSource labels chunks originating from the built-in handbook.
const DefaultSource = "campus_handbook"

// DefaultText is the built-in campus handbook corpus.
const DefaultText = `Hillcrest Institute of Technology operates a credit-based academic system offering undergraduate and postgraduate programs across engineering, sciences, management and the arts. The institute emphasizes academic integrity, student welfare and a strict anti-ragging policy.

Academic policies. A minimum attendance of 75 percent in every course is required to appear for end-semester examinations. Students earn credits through core courses, electives and approved extracurricular activities. Course registration opens two weeks before each semester and closes on the first day of classes. Late registration carries a fee and requires departmental approval.

Examinations and grading. End-semester examinations carry 60 percent of the course grade, with the remainder from continuous assessment. A grade point average below 5.0 for two consecutive semesters places a student on academic probation. Revaluation requests must be filed within ten days of result publication.

Library. The central library is open from 8am to 10pm on working days and 9am to 5pm on weekends. Books are issued for 14 days and may be renewed twice if no other reservation exists. A no-dues certificate from the library is mandatory before final examinations. Reference volumes and journals may not be taken out of the reading hall.

Discipline and safety. Ragging in any form is strictly prohibited and is a punishable offense. The campus is under video surveillance and a zero-tolerance policy applies to harassment and bullying. Identity cards must be carried at all times and produced on request.

Hostel. Hostel residents must return before 10pm on weekdays. Guests are permitted in common areas only and must be registered at the reception. Cooking inside rooms is not allowed for safety reasons.

Fees and scholarships. Tuition fees are payable at the start of each semester; a late payment fine accrues weekly. Merit scholarships cover up to 50 percent of tuition and are awarded on the previous year's grade point average. Need-based assistance is available through the student welfare office.

Admissions. Undergraduate admission is based on national entrance examination rank followed by counseling. Postgraduate programs additionally require a qualifying degree with at least 55 percent aggregate marks. International applicants are processed through the global outreach office.

Information technology. Only licensed software may be installed on institute machines. The campus network is filtered and monitored; peer-to-peer file sharing is blocked. Students receive an institute email account that remains active for one year after graduation.

Support services. The institute provides counseling, mentoring and a 24-hour health center. A dedicated grievance cell hears complaints within seven working days. Career services run placement preparation workshops every semester.`
